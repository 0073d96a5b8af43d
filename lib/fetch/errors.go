// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"errors"
	"fmt"

	"github.com/jwausle/bnd/lib/netutil"
)

// ErrNotFound reports that a locator names nothing: a missing file, an
// HTTP 404 or 410, or an uncached document in offline mode.
var ErrNotFound = errors.New("not found")

// HTTPError is a non-2xx response other than 404 and 410.
type HTTPError struct {
	// URL is the requested locator.
	URL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// Body is the start of the response body, trimmed.
	Body string
}

func (err *HTTPError) Error() string {
	if err.Body == "" {
		return fmt.Sprintf("fetch: GET %s: HTTP %d", err.URL, err.StatusCode)
	}
	return fmt.Sprintf("fetch: GET %s: HTTP %d: %s", err.URL, err.StatusCode, err.Body)
}

// IsNotFound reports whether err means the locator names nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// isRetryable reports whether another attempt could succeed.
func isRetryable(err error) bool {
	if IsNotFound(err) {
		return false
	}
	var httpError *HTTPError
	if errors.As(err, &httpError) {
		return netutil.IsTransientStatus(httpError.StatusCode)
	}
	return netutil.IsTransientError(err)
}
