// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"

	"github.com/klauspost/compress/zip"
	"github.com/ulikunitz/xz"

	"github.com/jwausle/bnd/lib/fetch"
)

// open returns a stream over the first encoding of locator that
// exists: the xz sibling, an entry in the jar sibling, or the plain
// document. A locator already ending in .xz has no fallback. Absence
// of every encoding is an *UnreachableError.
func (resolver *Resolver) open(ctx context.Context, locator *url.URL) (io.ReadCloser, error) {
	if hasPathSuffix(locator, ".xz") {
		file, err := resolver.lookup(ctx, locator)
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, resolver.absent(locator)
		}
		return openXZ(file, locator)
	}

	file, err := resolver.lookup(ctx, withPathSuffix(locator, ".xz"))
	if err != nil {
		return nil, err
	}
	if file != nil {
		return openXZ(file, locator)
	}

	if hasPathSuffix(locator, ".xml") {
		archive := replacePathSuffix(locator, ".xml", ".jar")
		file, err := resolver.lookup(ctx, archive)
		if err != nil {
			return nil, err
		}
		if file != nil {
			entry, err := openArchiveEntry(file, lastSegment(locator))
			switch {
			case err == nil:
				return entry, nil
			case errors.Is(err, errNoEntry):
				resolver.logger.Debug("archive lacks the expected entry",
					"archive", archive.String(),
					"entry", lastSegment(locator),
				)
			default:
				return nil, &MalformedDocumentError{Locator: archive, Err: err}
			}
		}
	}

	file, err = resolver.lookup(ctx, locator)
	if err != nil {
		return nil, err
	}
	if file != nil {
		stream, err := file.Open()
		if err != nil {
			return nil, &UnreachableError{Locator: locator, Err: err}
		}
		return stream, nil
	}

	return nil, resolver.absent(locator)
}

// lookup fetches locator, mapping absence to a nil file.
func (resolver *Resolver) lookup(ctx context.Context, locator *url.URL) (*fetch.File, error) {
	file, err := resolver.fetcher.Fetch(ctx, locator)
	if err != nil {
		if fetch.IsNotFound(err) {
			return nil, nil
		}
		return nil, &UnreachableError{Locator: locator, Err: err}
	}
	return file, nil
}

// absent reports a document missing in every form. The failure is
// logged once by whoever recovers or returns it.
func (resolver *Resolver) absent(locator *url.URL) error {
	resolver.logger.Debug("repository document not present",
		"locator", locator.String(),
		"default", resolver.defaults.contains(locator),
	)
	return &UnreachableError{Locator: locator}
}

// xzStream closes the underlying file along with the decompressor.
type xzStream struct {
	*xz.Reader
	file *os.File
}

func (stream *xzStream) Close() error {
	return stream.file.Close()
}

func openXZ(file *fetch.File, locator *url.URL) (io.ReadCloser, error) {
	handle, err := file.Open()
	if err != nil {
		return nil, &UnreachableError{Locator: locator, Err: err}
	}
	reader, err := xz.NewReader(bufio.NewReader(handle))
	if err != nil {
		handle.Close()
		return nil, &MalformedDocumentError{Locator: locator, Err: fmt.Errorf("xz: %w", err)}
	}
	return &xzStream{Reader: reader, file: handle}, nil
}

var errNoEntry = errors.New("entry not in archive")

// archiveEntry is a stream over one zip entry that owns the archive.
// Close releases both, once, whatever state reading left them in.
type archiveEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
	once    sync.Once
	err     error
}

func (entry *archiveEntry) Close() error {
	entry.once.Do(func() {
		entry.err = errors.Join(entry.ReadCloser.Close(), entry.archive.Close())
	})
	return entry.err
}

func openArchiveEntry(file *fetch.File, name string) (*archiveEntry, error) {
	archive, err := zip.OpenReader(file.Path)
	if err != nil {
		return nil, err
	}
	for _, member := range archive.File {
		if member.Name != name {
			continue
		}
		stream, err := member.Open()
		if err != nil {
			archive.Close()
			return nil, err
		}
		return &archiveEntry{ReadCloser: stream, archive: archive}, nil
	}
	archive.Close()
	return nil, errNoEntry
}
