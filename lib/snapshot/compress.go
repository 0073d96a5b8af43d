// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionTag identifies the compression applied to a snapshot
// payload. Tags are written to the file header, so the values are
// format constants.
type CompressionTag uint8

const (
	// CompressionNone stores the CBOR payload as is.
	CompressionNone CompressionTag = 0

	// CompressionLZ4 is an LZ4 frame stream. Fast to write, modest
	// ratio.
	CompressionLZ4 CompressionTag = 1

	// CompressionZstd is a zstd stream at the default level. Artifact
	// listings are highly repetitive text, so this is the default.
	CompressionZstd CompressionTag = 2
)

// String returns the human-readable name of a compression tag.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

// ParseCompressionTag parses a compression tag from its string
// representation.
func ParseCompressionTag(name string) (CompressionTag, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression tag: %q", name)
	}
}

// compressor returns a writer that compresses into w. Closing it
// flushes the stream but does not close w.
func compressor(w io.Writer, tag CompressionTag) (io.WriteCloser, error) {
	switch tag {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		return encoder, nil
	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

// decompressor returns a reader over the decompressed contents of r.
// The caller must Close it to release decoder resources.
func decompressor(r io.Reader, tag CompressionTag) (io.ReadCloser, error) {
	switch tag {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionZstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		return decoder.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
