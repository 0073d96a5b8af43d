// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DownloadFile copies body into path atomically: the bytes go to a
// temporary file in the same directory, which is synced and renamed
// over path only after the copy succeeds. Parent directories are
// created as needed. Returns the number of bytes written.
func DownloadFile(body io.Reader, path string) (int64, error) {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", directory, err)
	}

	temporary, err := os.CreateTemp(directory, ".download-*")
	if err != nil {
		return 0, fmt.Errorf("creating temporary file in %s: %w", directory, err)
	}
	temporaryPath := temporary.Name()
	committed := false
	defer func() {
		if !committed {
			temporary.Close()
			os.Remove(temporaryPath)
		}
	}()

	written, err := io.Copy(temporary, body)
	if err != nil {
		return written, fmt.Errorf("downloading to %s: %w", path, err)
	}
	if err := temporary.Sync(); err != nil {
		return written, fmt.Errorf("syncing %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		return written, fmt.Errorf("closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return written, fmt.Errorf("renaming %s to %s: %w", temporaryPath, path, err)
	}
	committed = true
	return written, nil
}
