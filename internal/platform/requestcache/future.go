package requestcache

import (
	"context"
	"sync"
)

// Future is the eventual outcome of one outbound request. It completes exactly
// once, with either a value or an error, and can be awaited any number of times.
type Future[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Go runs fn in a new goroutine and returns a future for its result.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := NewFuture[T]()
	go func() {
		v, err := fn(ctx)
		f.Complete(v, err)
	}()
	return f
}

// Resolved returns a future already completed with v.
func Resolved[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Complete(v, nil)
	return f
}

// Rejected returns a future already completed with err.
func Rejected[T any](err error) *Future[T] {
	f := NewFuture[T]()
	var zero T
	f.Complete(zero, err)
	return f
}

// Complete settles the future. Only the first call has an effect.
func (f *Future[T]) Complete(v T, err error) bool {
	completed := false
	f.once.Do(func() {
		f.val, f.err = v, err
		completed = true
		close(f.done)
	})
	return completed
}

// Await blocks until the future completes or ctx is done. Cancelling ctx only
// stops this waiter; the underlying request keeps running for other waiters.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Err returns the completion error, or nil while the future is pending.
func (f *Future[T]) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}
