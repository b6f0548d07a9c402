package async

import (
	"context"
	"sync"
)

// ExecFuture is a Future for functions that only return an error.
type ExecFuture struct {
	err  error
	once sync.Once
	done chan struct{}
}

// Await waits for the function to complete and returns its error.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// Exec runs fn in a new goroutine.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		err := fn(ctx, param)
		f.once.Do(func() {
			f.err = err
		})
	}()

	return f
}

// ExecAll waits for every future and returns the first error in argument
// order. All futures are awaited even when an earlier one failed.
func ExecAll(futures ...*ExecFuture) error {
	var first error
	for _, future := range futures {
		if err := future.Await(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
