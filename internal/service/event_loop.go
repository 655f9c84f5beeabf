package service

import (
	"context"
)

// EventLoop runs every session mutation on one goroutine, one event at a time
type EventLoop struct {
	events chan func()
	done   chan struct{}
}

// NewEventLoop creates a loop with room for buffer queued events
func NewEventLoop(buffer int) *EventLoop {
	return &EventLoop{
		events: make(chan func(), buffer),
		done:   make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled
func (l *EventLoop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.events:
			fn()
		}
	}
}

// Post queues fn. It returns false when the loop has stopped.
func (l *EventLoop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do queues fn and waits until it has run
func (l *EventLoop) Do(fn func()) bool {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		fn()
	}) {
		return false
	}
	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

// Done is closed once Run has returned
func (l *EventLoop) Done() <-chan struct{} {
	return l.done
}
