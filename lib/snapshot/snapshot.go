// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jwausle/bnd/lib/codec"
	"github.com/jwausle/bnd/lib/p2"
)

// Magic opens every snapshot file. The final byte is the format
// version.
const Magic = "P2SNAP\x00\x01"

// ErrBadMagic is returned when a file does not start with [Magic].
var ErrBadMagic = errors.New("snapshot: not a snapshot file")

// Snapshot is the persisted outcome of one `resolve` invocation.
type Snapshot struct {
	CreatedAt time.Time `cbor:"created_at" json:"created_at"`

	// Tool is the User-Agent of the binary that wrote the snapshot.
	Tool string `cbor:"tool,omitempty" json:"tool,omitempty"`

	Roots []Root `cbor:"roots" json:"roots"`
}

// Root is the resolution of a single root. Exactly one of Fatal and
// Artifacts/Failures is meaningful: a root whose resolution failed
// outright has Fatal set and nothing else.
type Root struct {
	URL       string        `cbor:"url" json:"url"`
	Name      string        `cbor:"name,omitempty" json:"name,omitempty"`
	Fatal     string        `cbor:"fatal,omitempty" json:"fatal,omitempty"`
	Artifacts []p2.Artifact `cbor:"artifacts,omitempty" json:"artifacts,omitempty"`
	Failures  []Failure     `cbor:"failures,omitempty" json:"failures,omitempty"`
}

// Failure is the persisted form of [p2.Failure].
type Failure struct {
	Locator string `cbor:"locator" json:"locator"`
	Error   string `cbor:"error" json:"error"`
	Default bool   `cbor:"default,omitempty" json:"default,omitempty"`
}

// FromResult captures a successful resolution.
func FromResult(result *p2.Result) Root {
	root := Root{
		URL:       result.Root.String(),
		Artifacts: result.Artifacts,
	}
	for _, failure := range result.Failures {
		root.Failures = append(root.Failures, Failure{
			Locator: failure.Locator.String(),
			Error:   failure.Err.Error(),
			Default: failure.Default,
		})
	}
	return root
}

// FromError captures a root that failed to resolve.
func FromError(locator *url.URL, err error) Root {
	return Root{URL: locator.String(), Fatal: err.Error()}
}

// Errors counts what the resolve command counts: one for a fatal
// root, otherwise each non-default failure.
func (root Root) Errors() int {
	if root.Fatal != "" {
		return 1
	}
	count := 0
	for _, failure := range root.Failures {
		if !failure.Default {
			count++
		}
	}
	return count
}

// Write encodes snapshot to w.
func Write(w io.Writer, snapshot *Snapshot, tag CompressionTag) error {
	header := append([]byte(Magic), byte(tag))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("snapshot: writing header: %w", err)
	}

	stream, err := compressor(w, tag)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := codec.NewEncoder(stream).Encode(snapshot); err != nil {
		stream.Close()
		return fmt.Errorf("snapshot: encoding: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("snapshot: flushing %s stream: %w", tag, err)
	}
	return nil
}

// ReadPayload checks the header of r and returns the decompressed
// CBOR payload along with the compression it was stored under.
func ReadPayload(r io.Reader) ([]byte, CompressionTag, error) {
	header := make([]byte, len(Magic)+1)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, 0, ErrBadMagic
		}
		return nil, 0, fmt.Errorf("snapshot: reading header: %w", err)
	}
	if string(header[:len(Magic)]) != Magic {
		return nil, 0, ErrBadMagic
	}
	tag := CompressionTag(header[len(Magic)])

	stream, err := decompressor(r, tag)
	if err != nil {
		return nil, tag, fmt.Errorf("snapshot: %w", err)
	}
	defer stream.Close()

	payload, err := io.ReadAll(stream)
	if err != nil {
		return nil, tag, fmt.Errorf("snapshot: decompressing %s payload: %w", tag, err)
	}
	return payload, tag, nil
}

// Read decodes a snapshot from r.
func Read(r io.Reader) (*Snapshot, error) {
	payload, _, err := ReadPayload(r)
	if err != nil {
		return nil, err
	}
	var snapshot Snapshot
	if err := codec.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("snapshot: decoding: %w", err)
	}
	return &snapshot, nil
}

// WriteFile writes snapshot to path atomically: a reader never
// observes a partially written file.
func WriteFile(path string, snapshot *Snapshot, tag CompressionTag) (err error) {
	temporary, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			temporary.Close()
			os.Remove(temporary.Name())
		}
	}()

	buffered := bufio.NewWriter(temporary)
	if err := Write(buffered, snapshot, tag); err != nil {
		return err
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := os.Rename(temporary.Name(), path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

// ReadFile reads the snapshot stored at path.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return Read(bytes.NewReader(data))
}
