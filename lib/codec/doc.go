// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration used for
// resolution snapshots.
//
// JSON is reserved for CLI output (resolve --json). Everything written
// to disk for later reloading is CBOR, encoded through this package so
// that the same logical snapshot always produces identical bytes. The
// encoder uses Core Deterministic Encoding (RFC 8949 §4.2) with
// timestamps as RFC 3339 text.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Stream callers, such as the snapshot writer that encodes straight
// into a compressor, use NewEncoder and NewDecoder instead.
//
// fxamacker/cbor reads `json` struct tags when a field has no `cbor`
// tag, so types shared with JSON output need only one set of names.
// Snapshot types spell out both because their CBOR names are a file
// format.
package codec
