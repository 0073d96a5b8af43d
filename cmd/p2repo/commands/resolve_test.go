// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jwausle/bnd/lib/snapshot"
	"github.com/jwausle/bnd/lib/testutil"
)

func TestResolveListsArtifacts(t *testing.T) {
	repository := testutil.NewRepository(t)
	repository.WriteString("artifacts.xml", leafListing("org.example.core", "org.example.ui"))
	h := newHarness(t, "")

	if err := h.run(append(h.withConfig("resolve"), repository.URL("").String())...); err != nil {
		t.Fatalf("resolve: %v\nstderr:\n%s", err, h.stderr.String())
	}

	output := h.stdout.String()
	for _, want := range []string{"org.example.core", "org.example.ui", "plugins/org.example.ui_1.0.0.jar", "2 artifacts, 0 errors"} {
		if !strings.Contains(output, want) {
			t.Errorf("report missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "\x1b[") {
		t.Errorf("report to a buffer contains escape sequences:\n%q", output)
	}
}

func TestResolvePartialFailureExitsOne(t *testing.T) {
	repository := testutil.NewRepository(t)
	repository.WriteString("compositeArtifacts.xml", compositeListing("good", "missing"))
	repository.WriteString("good/artifacts.xml", leafListing("org.example.core"))
	h := newHarness(t, "")

	err := h.run(append(h.withConfig("resolve"), repository.URL("compositeArtifacts.xml").String())...)
	requireExitCode(t, err, 1)

	output := h.stdout.String()
	if !strings.Contains(output, "org.example.core") {
		t.Errorf("surviving branch missing from report:\n%s", output)
	}
	if !strings.Contains(output, "skipped:") || !strings.Contains(output, "1 artifact, 1 error") {
		t.Errorf("failed branch not reported:\n%s", output)
	}
}

func TestResolveFatalRootDoesNotStopOthers(t *testing.T) {
	incompatible := testutil.NewRepository(t)
	incompatible.WriteString("p2.index", "version=2\nartifact.repository.factory.order=artifacts.xml,!\n")
	healthy := testutil.NewRepository(t)
	healthy.WriteString("artifacts.xml", leafListing("org.example.core"))
	h := newHarness(t, "")

	err := h.run(append(h.withConfig("resolve", "--json"),
		incompatible.URL("").String(), healthy.URL("").String())...)
	requireExitCode(t, err, 1)

	var resolution snapshot.Snapshot
	if err := json.Unmarshal(h.stdout.Bytes(), &resolution); err != nil {
		t.Fatalf("output is not a JSON snapshot: %v\n%s", err, h.stdout.String())
	}
	if len(resolution.Roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(resolution.Roots))
	}
	if !strings.Contains(resolution.Roots[0].Fatal, "incompatible version 2") {
		t.Errorf("first root fatal = %q", resolution.Roots[0].Fatal)
	}
	if resolution.Roots[1].Fatal != "" || len(resolution.Roots[1].Artifacts) != 1 {
		t.Errorf("second root = %+v", resolution.Roots[1])
	}
}

func TestResolveConfiguredRepositories(t *testing.T) {
	repository := testutil.NewRepository(t)
	repository.WriteString("artifacts.xml", leafListing("org.example.core"))
	h := newHarness(t, "repositories:\n  - name: fixture-release\n    url: "+repository.URL("").String()+"\n")

	if err := h.run(h.withConfig("resolve")...); err != nil {
		t.Fatalf("resolve: %v\nstderr:\n%s", err, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "fixture-release") {
		t.Errorf("configured name missing from report:\n%s", h.stdout.String())
	}
}

func TestResolveWithoutRoots(t *testing.T) {
	h := newHarness(t, "")
	err := h.run(h.withConfig("resolve")...)
	if err == nil || !strings.Contains(err.Error(), "no repositories") {
		t.Errorf("error = %v, want no repositories", err)
	}
}

func TestResolveSaveAndShow(t *testing.T) {
	repository := testutil.NewRepository(t)
	repository.WriteString("artifacts.xml", leafListing("org.example.core"))
	h := newHarness(t, "")
	path := filepath.Join(t.TempDir(), "resolution.p2snap")

	if err := h.run(append(h.withConfig("resolve", "--save", path, "--compression", "lz4"), repository.URL("").String())...); err != nil {
		t.Fatalf("resolve --save: %v\nstderr:\n%s", err, h.stderr.String())
	}

	if err := h.run("show", path); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "org.example.core") || !strings.Contains(h.stdout.String(), "snapshot of") {
		t.Errorf("show output:\n%s", h.stdout.String())
	}

	if err := h.run("show", "--json", path); err != nil {
		t.Fatalf("show --json: %v", err)
	}
	var resolution snapshot.Snapshot
	if err := json.Unmarshal(h.stdout.Bytes(), &resolution); err != nil {
		t.Fatalf("show --json output: %v", err)
	}
	if len(resolution.Roots) != 1 || resolution.Roots[0].Artifacts[0].ID != "org.example.core" {
		t.Errorf("decoded snapshot = %+v", resolution)
	}

	if err := h.run("show", "--diag", path); err != nil {
		t.Fatalf("show --diag: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "# compression: lz4") || !strings.Contains(h.stdout.String(), `"created_at"`) {
		t.Errorf("diagnostic output:\n%s", h.stdout.String())
	}
}

func TestShowRejectsOtherFiles(t *testing.T) {
	repository := testutil.NewRepository(t)
	path := repository.WriteString("artifacts.xml", leafListing("org.example.core"))
	h := newHarness(t, "")

	err := h.run("show", path)
	if err == nil || !strings.Contains(err.Error(), "not a snapshot") {
		t.Errorf("error = %v, want not a snapshot", err)
	}
}

func TestResolveRejectsUnknownCompression(t *testing.T) {
	repository := testutil.NewRepository(t)
	h := newHarness(t, "")
	err := h.run(append(h.withConfig("resolve", "--compression", "brotli"), repository.URL("").String())...)
	if err == nil || !strings.Contains(err.Error(), "unknown compression") {
		t.Errorf("error = %v", err)
	}
}

func TestParseRootAcceptsPaths(t *testing.T) {
	dir := t.TempDir()
	locator, err := parseRoot(dir)
	if err != nil {
		t.Fatalf("parseRoot: %v", err)
	}
	if locator.Scheme != "file" || !strings.HasSuffix(locator.Path, "/") {
		t.Errorf("locator = %s, want a file URL ending in /", locator)
	}

	if _, err := parseRoot("relative/does/not/exist"); err == nil {
		t.Error("expected error for a missing relative path")
	}
}
