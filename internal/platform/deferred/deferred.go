package deferred

import (
	"context"
	"sync"
)

// Value is a settle-once, read-many container for a value that becomes
// available later. The first Resolve wins; every waiter observes that value.
//
// Value has no failure state. Callers that need one should report failure
// through their own return path.
type Value[T any] struct {
	once sync.Once
	done chan struct{}
	v    T
}

func New[T any]() *Value[T] {
	return &Value[T]{done: make(chan struct{})}
}

// Resolve settles the value. It returns false if the value was already settled,
// in which case v is discarded.
func (d *Value[T]) Resolve(v T) bool {
	resolved := false
	d.once.Do(func() {
		d.v = v
		resolved = true
		close(d.done)
	})
	return resolved
}

// Peek returns the value without blocking.
func (d *Value[T]) Peek() (T, bool) {
	select {
	case <-d.done:
		return d.v, true
	default:
		var zero T
		return zero, false
	}
}

// Wait blocks until the value is resolved or ctx is done.
func (d *Value[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the value is resolved.
func (d *Value[T]) Done() <-chan struct{} {
	return d.done
}
