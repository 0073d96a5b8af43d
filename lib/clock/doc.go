// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for the fetch
// client's cache freshness checks and retry backoff.
//
// Production code takes a Clock and uses Real(). Tests use Fake(),
// which only moves when Advance is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	client, _ := fetch.New(fetch.Config{Clock: c, ...})
//	c.Advance(25 * time.Hour) // cached entries are now stale
package clock
