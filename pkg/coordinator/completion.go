package coordinator

import "context"

// Completion is the pending result of a command. It resolves exactly once.
type Completion[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newCompletion[T any]() *Completion[T] {
	return &Completion[T]{done: make(chan struct{})}
}

func resolved[T any](value T, err error) *Completion[T] {
	c := newCompletion[T]()
	c.resolve(value, err)
	return c
}

func failed[T any](err error) *Completion[T] {
	var zero T
	return resolved(zero, err)
}

func (c *Completion[T]) resolve(value T, err error) {
	c.value = value
	c.err = err
	close(c.done)
}

// Done is closed once the command has finished.
func (c *Completion[T]) Done() <-chan struct{} {
	return c.done
}

// Result returns the outcome. It must only be called after Done is closed.
func (c *Completion[T]) Result() (T, error) {
	return c.value, c.err
}

// Wait blocks until the command finishes or ctx is done. A command that
// outlives ctx still runs to completion.
func (c *Completion[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.value, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
