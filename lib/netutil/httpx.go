// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers for the fetch client.
//
// ErrorBody bounds error response reads at MaxErrorBodySize so a
// misbehaving mirror cannot make a diagnostic message unbounded.
// Successful downloads are never read into memory: DownloadFile
// streams them into a temporary file next to the destination and
// renames it into place, so a reader never observes a half-written
// cache entry.
//
// IsTransientStatus and IsTransientError classify failures that are
// worth retrying (server errors, throttling, connection resets,
// timeouts) apart from ones that are not (4xx, malformed URLs).
package netutil

import (
	"io"
	"strings"
)

// MaxErrorBodySize bounds how much of an error response body is kept
// for diagnostics.
const MaxErrorBodySize int64 = 4 << 10

// ErrorBody reads an HTTP error response body and returns it as a
// trimmed string for diagnostic error messages. Read errors are
// silently ignored: a partial or empty body is still useful in an
// error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxErrorBodySize))
	return strings.TrimSpace(string(data))
}
