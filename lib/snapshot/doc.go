// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot persists resolution results so they can be
// inspected later without touching the network.
//
// A snapshot file is an 8-byte magic ("P2SNAP\x00\x01"), a one-byte
// [CompressionTag], and a compressed stream holding the CBOR encoding
// of a [Snapshot]. CBOR uses the deterministic encoding of
// [github.com/jwausle/bnd/lib/codec], so two snapshots of identical
// results are byte-identical apart from CreatedAt.
package snapshot
