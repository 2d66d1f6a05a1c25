// Package sched provides the cooperative scheduler the deck engine runs on.
//
// Every callback handed to a Scheduler runs on a single "UI turn" goroutine, one at a time.
// The engine never locks: it relies on that guarantee the way browser code relies on the
// event loop. Manual is a virtual clock for tests; Loop is the real-time implementation
// whose callbacks are drained by the terminal UI.
package sched

import "time"

// FrameInterval is the delay before a RequestFrame callback runs.
const FrameInterval = 16 * time.Millisecond

type Timer interface {
	// Stop cancels the callback. It reports whether the call prevented it from running.
	Stop() bool
}

type Scheduler interface {
	Now() time.Time
	// AfterFunc runs fn once after d (setTimeout).
	AfterFunc(d time.Duration, fn func()) Timer
	// RequestFrame runs fn before the next paint (requestAnimationFrame).
	RequestFrame(fn func()) Timer
	// Post queues fn onto the UI turn as soon as possible.
	Post(fn func())
}

// Stop stops t when it is non-nil. Convenience for optional timer fields.
func Stop(t Timer) bool {
	if t == nil {
		return false
	}
	return t.Stop()
}
