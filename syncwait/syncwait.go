// Package syncwait provides the blocking bridge that lets a synchronous
// validation walk drive an asynchronous rule to completion.
//
// The bridge runs the rule on its own goroutine and parks the calling
// goroutine on a manual-reset event signaled by the completion, so the
// caller blocks on exactly one completion callback rather than on anything
// the async work itself needs. Panics inside the rule are re-raised on the
// calling goroutine, and errors propagate unchanged.
package syncwait

import (
	"context"
	"sync"
)

// Event is a manual-reset event: Wait blocks until Set is called once,
// after which all current and future waiters proceed immediately.
type Event struct {
	done chan struct{}
	once sync.Once
}

// NewEvent creates an unset Event.
func NewEvent() *Event {
	return &Event{done: make(chan struct{})}
}

// Set signals the event. Safe to call more than once.
func (e *Event) Set() {
	e.once.Do(func() { close(e.done) })
}

// Wait blocks until the event is set.
func (e *Event) Wait() {
	<-e.done
}

// IsSet reports whether the event has been signaled.
func (e *Event) IsSet() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Await runs fn on a new goroutine and blocks until it completes,
// returning its result. Cancellation is cooperative: ctx is passed through
// to fn, and Await keeps blocking until fn observes it and returns. A
// panic inside fn is re-raised on the calling goroutine.
func Await[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var (
		val      T
		err      error
		panicked any
	)

	ev := NewEvent()
	go func() {
		defer func() {
			if p := recover(); p != nil {
				panicked = p
			}
			ev.Set()
		}()
		val, err = fn(ctx)
	}()

	ev.Wait()
	if panicked != nil {
		panic(panicked)
	}
	return val, err
}
