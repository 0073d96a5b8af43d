// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
)

// IsTransientStatus reports whether an HTTP status code describes a
// condition that may clear up on retry: throttling or a server-side
// failure.
func IsTransientStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// IsTransientError reports whether a transport error is worth
// retrying: a timeout, an unexpected EOF, or a connection that was
// reset, refused, or broken mid-transfer.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ECONNRESET || errno == syscall.ECONNREFUSED || errno == syscall.EPIPE
	}
	return false
}
