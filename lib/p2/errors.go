// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jwausle/bnd/lib/fetch"
)

// CycleError reports a locator reached a second time within one
// Resolve call. Path runs from the root to the refused locator.
type CycleError struct {
	Path []*url.URL
}

func (err *CycleError) Error() string {
	steps := make([]string, len(err.Path))
	for index, locator := range err.Path {
		steps[index] = locator.String()
	}
	return "cycle detected: " + strings.Join(steps, " -> ")
}

// UnreachableError reports that no encoding of a document could be
// fetched. Err is nil for plain absence and holds the transport
// failure otherwise.
type UnreachableError struct {
	Locator *url.URL
	Err     error
}

func (err *UnreachableError) Error() string {
	if err.Err == nil || errors.Is(err.Err, fetch.ErrNotFound) {
		return fmt.Sprintf("repository document %s not found", err.Locator)
	}
	return fmt.Sprintf("repository document %s unreachable: %v", err.Locator, err.Err)
}

func (err *UnreachableError) Unwrap() error { return err.Err }

// IncompatibleVersionError reports a p2.index whose version is not 1.
// It is fatal for the repository that declares it.
type IncompatibleVersionError struct {
	Root    *url.URL
	Version string
}

func (err *IncompatibleVersionError) Error() string {
	version := err.Version
	if version == "" {
		version = "(missing)"
	}
	return fmt.Sprintf("repository %s specifies an index file with an incompatible version %s", err.Root, version)
}

// MalformedDocumentError reports a document that exists but could not
// be decoded or parsed.
type MalformedDocumentError struct {
	Locator *url.URL
	Err     error
}

func (err *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed repository document %s: %v", err.Locator, err.Err)
}

func (err *MalformedDocumentError) Unwrap() error { return err.Err }

// IsCycle reports whether err is a CycleError.
func IsCycle(err error) bool {
	var cycleError *CycleError
	return errors.As(err, &cycleError)
}

// IsUnreachable reports whether err is an UnreachableError.
func IsUnreachable(err error) bool {
	var unreachable *UnreachableError
	return errors.As(err, &unreachable)
}

// IsIncompatibleVersion reports whether err is an
// IncompatibleVersionError.
func IsIncompatibleVersion(err error) bool {
	var incompatible *IncompatibleVersionError
	return errors.As(err, &incompatible)
}

// IsMalformed reports whether err is a MalformedDocumentError.
func IsMalformed(err error) bool {
	var malformed *MalformedDocumentError
	return errors.As(err, &malformed)
}

// malformed wraps a parser error unless it already carries a type from
// this package.
func malformed(locator *url.URL, err error) error {
	if IsMalformed(err) || IsUnreachable(err) || IsCycle(err) || IsIncompatibleVersion(err) {
		return err
	}
	return &MalformedDocumentError{Locator: locator, Err: err}
}
