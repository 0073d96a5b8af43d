// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package p2 enumerates the artifacts published by a p2 software
// repository, following composite repositories to their leaves.
//
// A p2 repository either lists its artifacts directly (artifacts.xml,
// a leaf) or delegates to child repositories (compositeArtifacts.xml,
// a composite). Composites may nest arbitrarily and may form cycles.
// Which documents a repository offers is declared by an optional
// p2.index properties file; without one the four well-known names
// are assumed.
//
// # Resolution
//
// [Resolver.Resolve] takes a root locator and walks the graph
// concurrently: every composite node resolves all of its children at
// once and concatenates their artifacts in declaration order. Fetching
// and parsing run on a bounded [workpool.Pool]; the joins run on plain
// goroutines so nested fan-out never starves the pool.
//
// Each top-level call keeps a visited set. A locator reached a second
// time, whether through a true cycle or a diamond, is refused with a
// [CycleError], so every leaf contributes its artifacts once.
//
// # Partial failure
//
// A failing branch (unreachable, malformed, cyclic, incompatible) is
// recovered to an empty list and recorded in [Result.Failures];
// siblings are unaffected. Only the root can fail the call: when the
// document it names directly is missing or malformed, when its
// p2.index declares an unsupported version, or when no p2.index exists
// and none of the default listings could be read.
//
// Failures of synthesized default locators (the well-known names tried
// when a repository has no p2.index) are expected and are logged at
// info level; every other failure is logged as an error.
//
// # Finding a document
//
// A logical document name.xml may be published in three encodings.
// The resolver tries, in order, name.xml.xz (xz-compressed),
// name.jar (a zip archive whose entry is named name.xml), and the
// plain name.xml. A locator that already ends in .xz is fetched as is.
package p2
