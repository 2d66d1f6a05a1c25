package sched

import (
	"sync"
	"sync/atomic"
	"time"
)

// Loop is the real-time scheduler. Timers fire on runtime goroutines but only enqueue their
// callback; the owner drains Tasks() and runs each callback on its UI goroutine.
// Callbacks are delivered in the order they were enqueued.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once

	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

type loopTimer struct {
	t       *time.Timer
	stopped atomic.Bool
	fired   atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if t.fired.Load() {
		return false
	}
	if t.stopped.Swap(true) {
		return false
	}
	if t.t != nil {
		t.t.Stop()
	}
	return true
}

func NewLoop() *Loop {
	l := &Loop{
		tasks: make(chan func()),
		done:  make(chan struct{}),
		wake:  make(chan struct{}, 1),
	}
	go l.pump()
	return l
}

// Tasks delivers callbacks that are ready to run on the UI goroutine.
func (l *Loop) Tasks() <-chan func() { return l.tasks }

// Done is closed by Close.
func (l *Loop) Done() <-chan struct{} { return l.done }

func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *Loop) Now() time.Time { return time.Now() }

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.enqueue(func() {
			// A Stop between the timer firing and the UI turn running still cancels.
			if lt.stopped.Load() {
				return
			}
			lt.fired.Store(true)
			fn()
		})
	})
	return lt
}

func (l *Loop) RequestFrame(fn func()) Timer {
	return l.AfterFunc(FrameInterval, fn)
}

// Post never blocks, so it is safe from the UI goroutine itself.
func (l *Loop) Post(fn func()) {
	l.enqueue(fn)
}

func (l *Loop) enqueue(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// pump hands queued callbacks to Tasks() one at a time, oldest first.
func (l *Loop) pump() {
	for {
		l.mu.Lock()
		var fn func()
		if len(l.queue) > 0 {
			fn = l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
		}
		l.mu.Unlock()

		if fn == nil {
			select {
			case <-l.done:
				return
			case <-l.wake:
			}
			continue
		}
		select {
		case <-l.done:
			return
		case l.tasks <- fn:
		}
	}
}
