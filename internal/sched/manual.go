package sched

import "time"

// Manual is a deterministic scheduler driven by Advance. Nothing runs until the clock moves.
type Manual struct {
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	due     time.Time
	seq     uint64
	fn      func()
	stopped bool
	done    bool
}

func (t *manualTask) Stop() bool {
	if t.stopped || t.done {
		return false
	}
	t.stopped = true
	return true
}

func NewManual(start time.Time) *Manual {
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time { return m.now }

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return m.schedule(m.now.Add(d), fn)
}

func (m *Manual) RequestFrame(fn func()) Timer {
	return m.schedule(m.now.Add(FrameInterval), fn)
}

func (m *Manual) Post(fn func()) {
	m.schedule(m.now, fn)
}

func (m *Manual) schedule(due time.Time, fn func()) *manualTask {
	m.seq++
	t := &manualTask{due: due, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Pending reports how many callbacks are scheduled and not stopped.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.tasks {
		if !t.stopped && !t.done {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every callback that becomes due in order.
// Callbacks scheduled while advancing run too if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		t := m.next(end)
		if t == nil {
			break
		}
		if t.due.After(m.now) {
			m.now = t.due
		}
		t.done = true
		t.fn()
	}
	m.now = end
	m.compact()
}

// Flush runs everything due at the current instant (posted tasks, zero-delay timers).
func (m *Manual) Flush() { m.Advance(0) }

// Frame advances by one frame interval.
func (m *Manual) Frame() { m.Advance(FrameInterval) }

func (m *Manual) next(end time.Time) *manualTask {
	var best *manualTask
	for _, t := range m.tasks {
		if t.stopped || t.done || t.due.After(end) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.stopped && !t.done {
			live = append(live, t)
		}
	}
	m.tasks = live
}
