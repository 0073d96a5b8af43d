// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"os"
	"time"
)

// File is a fetched document on the local filesystem.
type File struct {
	// Path is the local path of the document's bytes.
	Path string

	// ModTime is the origin's Last-Modified time when it sent one,
	// otherwise the local file's modification time.
	ModTime time.Time

	// Size is the document size in bytes.
	Size int64

	// FromCache is true when the bytes were served without a download
	// in this call: a fresh cache hit, a 304 revalidation, or offline
	// mode.
	FromCache bool
}

// Open opens the document for reading.
func (f *File) Open() (*os.File, error) {
	return os.Open(f.Path)
}
