// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds the terminal styling shared by p2repo's
// human-readable reports: a 256-color [Theme] and the lipgloss styles
// derived from it. Output that is not a terminal is rendered without
// escape sequences by lipgloss itself, so callers style unconditionally.
package tui
