// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workpool

import (
	"context"
	"fmt"
	"runtime"
)

// Pool bounds the number of functions submitted via [Submit] that run
// at the same time. Pool is safe for concurrent use.
type Pool struct {
	slots chan struct{}
}

// New creates a pool with the given number of worker slots. If
// workers is zero or negative, it defaults to max(runtime.NumCPU(), 4).
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 4 {
			workers = 4
		}
	}
	return &Pool{slots: make(chan struct{}, workers)}
}

// Workers returns the number of worker slots.
func (p *Pool) Workers() int {
	return cap(p.slots)
}

// Busy returns the number of slots currently held.
func (p *Pool) Busy() int {
	return len(p.slots)
}

// acquire blocks until a slot is free or ctx is done.
func (p *Pool) acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) release() {
	<-p.slots
}

// Submit runs fn on the pool and returns its future immediately. The
// function starts once a slot is free. If ctx is done before a slot
// frees up, fn never runs and the future fails with ctx's error.
func Submit[T any](ctx context.Context, pool *Pool, fn func() (T, error)) *Future[T] {
	future := newFuture[T]()
	go func() {
		if err := pool.acquire(ctx); err != nil {
			var zero T
			future.complete(zero, fmt.Errorf("waiting for worker: %w", err))
			return
		}
		defer pool.release()
		future.complete(call(fn))
	}()
	return future
}

// Go runs fn on a new goroutine outside the pool. Use it for functions
// that mostly wait on other futures.
func Go[T any](fn func() (T, error)) *Future[T] {
	future := newFuture[T]()
	go func() {
		future.complete(call(fn))
	}()
	return future
}

// call invokes fn, converting a panic into an error so one bad task
// cannot take the process down with it.
func call[T any](fn func() (T, error)) (value T, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			var zero T
			value = zero
			err = fmt.Errorf("task panicked: %v", recovered)
		}
	}()
	return fn()
}
