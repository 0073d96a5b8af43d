// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fetch retrieves repository documents and keeps a local copy
// of everything downloaded over HTTP.
//
// [Client.Fetch] returns a [File]: a path on the local filesystem plus
// the modification time the origin reported. Absence is always
// [ErrNotFound], never a transport error, so the resolution engine can
// walk its fallback chain by testing errors.Is(err, ErrNotFound).
//
// file: locators are served in place. http and https locators are
// stored under <dir>/blobs/<hh>/<blake3 of the locator> and indexed in
// a SQLite database (<dir>/index.db) holding the ETag, Last-Modified,
// size and fetch time of each entry. An entry younger than MaxAge is
// served without touching the network; an older one is revalidated
// with If-None-Match and If-Modified-Since. In offline mode the
// network is never touched and an uncached locator is simply absent.
//
// Transient failures (HTTP 429 and 5xx, connection resets, timeouts)
// are retried with exponential backoff measured on the injected
// [clock.Clock].
package fetch
