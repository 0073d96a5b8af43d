// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version identifies the running p2repo build.
//
// Release builds stamp [Version], [GitCommit], [GitDirty] and
// [BuildTime] through -ldflags -X. Development builds leave them
// unset and fall back to the VCS information the Go toolchain embeds.
//
// [Info] is the short form printed by `p2repo version`, [Full] adds
// the Go toolchain and platform, and [UserAgent] is what the fetch
// client sends to repository mirrors, so a mirror operator can tell
// p2repo traffic apart from IDE and Maven resolvers.
package version
