// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for p2repo.
//
// Configuration is loaded from a single file specified by either the
// P2REPO_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. When neither is given the CLI runs
// with [Default] and the repositories named on the command line.
//
// Variable expansion is performed after loading on the cache
// directory and repository URLs: ${HOME}, ${P2REPO_CACHE}, and
// ${VAR:-default} patterns are expanded. No other environment
// variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Repositories, Cache, Fetch,
//     Snapshot, Log
//   - [Default] -- returns a Config with usable defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other packages in this module.
package config
