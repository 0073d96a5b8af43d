// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfoUsesInjectedCommit(t *testing.T) {
	savedCommit, savedDirty := GitCommit, GitDirty
	t.Cleanup(func() { GitCommit, GitDirty = savedCommit, savedDirty })

	GitCommit = "abc1234"
	GitDirty = "true"
	info := Info()
	if !strings.Contains(info, "abc1234-dirty") {
		t.Errorf("Info() = %q, want it to contain %q", info, "abc1234-dirty")
	}
	if !strings.HasPrefix(info, Version) {
		t.Errorf("Info() = %q, want prefix %q", info, Version)
	}
}

func TestFullIncludesPlatform(t *testing.T) {
	full := Full()
	if !strings.Contains(full, "Go: go") {
		t.Errorf("Full() = %q, want Go version line", full)
	}
}

func TestUserAgent(t *testing.T) {
	if got, want := UserAgent(), "p2repo/"+Version; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}
