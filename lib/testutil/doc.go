// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls.
//
// [Repository] builds on-disk p2 repository fixtures under a test
// temporary directory: plain files, xz-compressed siblings, and jar
// archives holding a listing entry. [DirURL] and [FileURL] turn
// fixture paths into file: locators.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
