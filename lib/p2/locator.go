// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Normalize returns locator with a trailing slash on its path, so
// relative references resolve inside it.
func Normalize(locator *url.URL) *url.URL {
	if strings.HasSuffix(locator.Path, "/") {
		return locator
	}
	return withPath(locator, locator.Path+"/")
}

// withPath returns a copy of locator with a new decoded path.
func withPath(locator *url.URL, newPath string) *url.URL {
	copied := *locator
	copied.Path = newPath
	copied.RawPath = ""
	return &copied
}

func hasPathSuffix(locator *url.URL, suffix string) bool {
	return strings.HasSuffix(locator.Path, suffix)
}

// withPathSuffix appends suffix to the path: name.xml becomes
// name.xml.xz.
func withPathSuffix(locator *url.URL, suffix string) *url.URL {
	return withPath(locator, locator.Path+suffix)
}

// replacePathSuffix swaps a trailing old for replacement. The locator
// is returned unchanged when its path does not end in old.
func replacePathSuffix(locator *url.URL, old, replacement string) *url.URL {
	if !hasPathSuffix(locator, old) {
		return locator
	}
	return withPath(locator, strings.TrimSuffix(locator.Path, old)+replacement)
}

// lastSegment returns the final path element.
func lastSegment(locator *url.URL) string {
	return path.Base(locator.Path)
}

// directory returns the locator of the directory holding a document.
func directory(locator *url.URL) *url.URL {
	return locator.ResolveReference(&url.URL{Path: "./"})
}

// resolveReference resolves a possibly relative reference against base.
func resolveReference(base *url.URL, reference string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(reference))
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", reference, err)
	}
	return base.ResolveReference(parsed), nil
}

// locatorKey is the identity used for set membership.
func locatorKey(locator *url.URL) string {
	return locator.String()
}
