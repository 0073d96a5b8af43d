// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the p2repo entrypoint's exit handling: the
// only place outside the cli package that writes to stderr without the
// structured logger, because the logger may not exist yet.
package process
