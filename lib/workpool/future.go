// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workpool

import "context"

// Future holds the eventual result of a concurrent computation. A
// future completes exactly once; after that its value and error never
// change.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) complete(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Resolved returns a future that has already completed with value.
func Resolved[T any](value T) *Future[T] {
	future := newFuture[T]()
	future.complete(value, nil)
	return future
}

// Failed returns a future that has already completed with err.
func Failed[T any](err error) *Future[T] {
	future := newFuture[T]()
	var zero T
	future.complete(zero, err)
	return future
}

// Done returns a channel that is closed when the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future completes or ctx is done. A done
// context does not affect the underlying computation.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// result returns the outcome of a completed future. The caller must
// have observed Done.
func (f *Future[T]) result() (T, error) {
	return f.value, f.err
}

// Then returns a future for fn applied to f's value. If f fails, fn is
// not called and the returned future fails with the same error.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	return Go(func() (U, error) {
		<-f.done
		value, err := f.result()
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(value)
	})
}

// FlatMap is Then for functions that themselves return a future.
func FlatMap[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	return Go(func() (U, error) {
		<-f.done
		value, err := f.result()
		if err != nil {
			var zero U
			return zero, err
		}
		next := fn(value)
		<-next.done
		return next.result()
	})
}

// Recover returns a future that never fails: if f fails, the returned
// future completes with fn(err) instead.
func Recover[T any](f *Future[T], fn func(error) T) *Future[T] {
	return Go(func() (T, error) {
		<-f.done
		value, err := f.result()
		if err != nil {
			return fn(err), nil
		}
		return value, nil
	})
}

// All returns a future for the values of every future in futures, in
// the same order. It fails with the first error in slice order once
// every future has completed.
func All[T any](futures []*Future[T]) *Future[[]T] {
	return Go(func() ([]T, error) {
		values := make([]T, len(futures))
		var firstErr error
		for index, future := range futures {
			<-future.done
			value, err := future.result()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			values[index] = value
		}
		if firstErr != nil {
			return nil, firstErr
		}
		return values, nil
	})
}
