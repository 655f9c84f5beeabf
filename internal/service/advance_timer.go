package service

import (
	"time"
)

// AfterFunc schedules f after d and returns a function that cancels it
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

// RealAfterFunc schedules on the wall clock
func RealAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// AdvanceTimer delays the automatic advance after a multiple-choice answer.
// It never touches session state itself: when the delay elapses it posts the
// armed callback to the event loop, tagged with the generation it was armed
// under. Any later Arm or Cancel bumps the generation so a stale callback can
// tell it is no longer wanted.
type AdvanceTimer struct {
	delay      time.Duration
	afterFunc  AfterFunc
	post       func(func()) bool
	generation uint64
	stop       func() bool
}

// NewAdvanceTimer creates a timer that posts through post. A zero delay
// disables automatic advancing.
func NewAdvanceTimer(delay time.Duration, afterFunc AfterFunc, post func(func()) bool) *AdvanceTimer {
	if afterFunc == nil {
		afterFunc = RealAfterFunc
	}
	return &AdvanceTimer{delay: delay, afterFunc: afterFunc, post: post}
}

// Enabled reports whether automatic advancing is configured
func (t *AdvanceTimer) Enabled() bool {
	return t != nil && t.delay > 0 && t.post != nil
}

// Arm cancels any outstanding task and schedules fire with the new generation
func (t *AdvanceTimer) Arm(fire func(generation uint64)) {
	if !t.Enabled() {
		return
	}
	t.Cancel()
	gen := t.generation
	t.stop = t.afterFunc(t.delay, func() {
		t.post(func() { fire(gen) })
	})
}

// Cancel invalidates the outstanding task, if any
func (t *AdvanceTimer) Cancel() {
	if t == nil {
		return
	}
	t.generation++
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

// Current reports whether generation is still the armed one
func (t *AdvanceTimer) Current(generation uint64) bool {
	return t != nil && t.stop != nil && t.generation == generation
}
