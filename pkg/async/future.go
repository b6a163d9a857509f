package async

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"
)

var (
	// ErrTimeout is returned by AwaitWithTimeout when the future is not complete in time.
	ErrTimeout = errors.New("async: timeout waiting for result")
	// ErrNoFutures is returned by WaitAny when called without futures.
	ErrNoFutures = errors.New("async: no futures provided")
	// ErrPanic wraps a panic raised by the asynchronous function.
	ErrPanic = errors.New("async: function panicked")
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Await waits for the asynchronous function to complete and returns its result.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for the asynchronous function to complete with a timeout.
// If the timeout occurs before completion, returns ErrTimeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future[U]) complete(result U, err error) {
	f.once.Do(func() {
		f.result = result
		f.err = err
	})
}

// Async executes fn in its own goroutine and returns a Future for its result.
// A context cancelled before fn starts completes the future with ctx.Err().
// A panic in fn completes the future with an error wrapping ErrPanic instead
// of crashing the process.
func Async[T, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if p := recover(); p != nil {
				var zero U
				f.complete(zero, fmt.Errorf("%w: %v\n%s", ErrPanic, p, debug.Stack()))
			}
		}()

		if err := ctx.Err(); err != nil {
			var zero U
			f.complete(zero, err)
			return
		}

		f.complete(fn(ctx, param))
	}()

	return f
}

// WaitAll waits for every future and returns their results in order.
// All futures are awaited even when one fails; the first error in order is returned.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	var firstErr error
	for i, future := range futures {
		result, err := future.Await()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		results[i] = result
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// WaitAny waits for the first future to complete and returns its index,
// result and error.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	var zero U
	if len(futures) == 0 {
		return -1, zero, ErrNoFutures
	}

	type outcome struct {
		index  int
		result U
		err    error
	}
	done := make(chan outcome, len(futures))

	for i, future := range futures {
		go func(index int, f *Future[U]) {
			result, err := f.Await()
			done <- outcome{index, result, err}
		}(i, future)
	}

	res := <-done
	return res.index, res.result, res.err
}
