// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package workpool provides a bounded worker pool and a small future
// type for composing concurrent fan-out/fan-in work.
//
// Work that does I/O or parsing goes through [Submit], which holds one
// of the pool's worker slots for the duration of the function. Work
// that only waits on other futures goes through [Go], which runs on
// its own goroutine without a slot. Keeping waiters off the pool means
// a recursive fan-out cannot deadlock a saturated pool: a slot is only
// ever held by a function that makes progress on its own.
//
// Futures compose with [Then], [FlatMap], [Recover], and [All]:
//
//	branch := workpool.Recover(resolveChild(child), func(err error) []Artifact {
//	    logger.Error("child failed", "error", err)
//	    return nil
//	})
//	joined := workpool.All(branches) // order matches branches
//	lists, err := joined.Wait(ctx)
//
// This package has no internal dependencies.
package workpool
