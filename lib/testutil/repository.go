// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/ulikunitz/xz"
)

// Repository is an on-disk fixture directory laid out the way a p2
// repository is served.
type Repository struct {
	t    *testing.T
	Root string
}

// NewRepository creates an empty fixture under t.TempDir().
func NewRepository(t *testing.T) *Repository {
	t.Helper()
	return &Repository{t: t, Root: t.TempDir()}
}

// Path returns the absolute path of a slash-separated relative path.
func (r *Repository) Path(relative string) string {
	return filepath.Join(r.Root, filepath.FromSlash(relative))
}

// URL returns the file: locator of a relative path. A relative path
// ending in "/" (or empty) yields a directory locator.
func (r *Repository) URL(relative string) *url.URL {
	r.t.Helper()
	if relative == "" || strings.HasSuffix(relative, "/") {
		return DirURL(r.t, r.Path(relative))
	}
	return FileURL(r.t, r.Path(relative))
}

// Write stores data at the relative path, creating parent directories.
func (r *Repository) Write(relative string, data []byte) string {
	r.t.Helper()
	path := r.Path(relative)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("creating fixture directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		r.t.Fatalf("writing fixture %s: %v", relative, err)
	}
	return path
}

// WriteString is Write for text content.
func (r *Repository) WriteString(relative, content string) string {
	r.t.Helper()
	return r.Write(relative, []byte(content))
}

// WriteXZ stores the xz compression of content at the relative path.
func (r *Repository) WriteXZ(relative, content string) string {
	r.t.Helper()
	return r.Write(relative, XZ(r.t, []byte(content)))
}

// WriteJar stores a zip archive at the relative path holding one entry
// per name/content pair.
func (r *Repository) WriteJar(relative string, entries map[string]string) string {
	r.t.Helper()
	return r.Write(relative, Jar(r.t, entries))
}

// XZ compresses data with the xz container format.
func XZ(t testing.TB, data []byte) []byte {
	t.Helper()
	var buffer bytes.Buffer
	writer, err := xz.NewWriter(&buffer)
	if err != nil {
		t.Fatalf("creating xz writer: %v", err)
	}
	if _, err := writer.Write(data); err != nil {
		t.Fatalf("xz write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("xz close: %v", err)
	}
	return buffer.Bytes()
}

// Jar builds a zip archive with the given entries.
func Jar(t testing.TB, entries map[string]string) []byte {
	t.Helper()
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	for name, content := range entries {
		entry, err := writer.Create(name)
		if err != nil {
			t.Fatalf("creating jar entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("writing jar entry %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing jar: %v", err)
	}
	return buffer.Bytes()
}

// FileURL returns the file: locator for an absolute path.
func FileURL(t testing.TB, path string) *url.URL {
	t.Helper()
	absolute, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("resolving %s: %v", path, err)
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(absolute)}
}

// DirURL is FileURL with a trailing slash.
func DirURL(t testing.TB, path string) *url.URL {
	t.Helper()
	locator := FileURL(t, path)
	if !strings.HasSuffix(locator.Path, "/") {
		locator.Path += "/"
	}
	return locator
}
