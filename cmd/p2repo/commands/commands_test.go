// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jwausle/bnd/lib/fetch"
	"github.com/jwausle/bnd/lib/testutil"
)

func TestIndexShowsFactoryOrder(t *testing.T) {
	repository := testutil.NewRepository(t)
	repository.WriteString("p2.index", "version=1\n"+
		"artifact.repository.factory.order=artifacts.xml.xz,artifacts.xml,!\n"+
		"metadata.repository.factory.order=compositeContent.xml,!\n")
	h := newHarness(t, "")

	if err := h.run(append(h.withConfig("index", "--json"), repository.URL("").String())...); err != nil {
		t.Fatalf("index: %v", err)
	}
	var report indexReport
	if err := json.Unmarshal(h.stdout.Bytes(), &report); err != nil {
		t.Fatalf("index --json output: %v\n%s", err, h.stdout.String())
	}
	if report.Synthesized || report.LastModified == nil {
		t.Errorf("report = %+v", report)
	}
	if len(report.Artifacts) != 1 || !strings.HasSuffix(report.Artifacts[0], "/artifacts.xml") {
		t.Errorf("Artifacts = %v, want the canonical artifacts.xml only", report.Artifacts)
	}
	if len(report.Content) != 1 || !strings.HasSuffix(report.Content[0], "/compositeContent.xml") {
		t.Errorf("Content = %v", report.Content)
	}
}

func TestIndexWithoutIndexFile(t *testing.T) {
	repository := testutil.NewRepository(t)
	h := newHarness(t, "")

	if err := h.run(append(h.withConfig("index"), repository.URL("").String())...); err != nil {
		t.Fatalf("index: %v", err)
	}
	output := h.stdout.String()
	for _, want := range []string{"well-known names assumed", "compositeArtifacts.xml", "artifacts.xml", "compositeContent.xml", "content.xml"} {
		if !strings.Contains(output, want) {
			t.Errorf("index output missing %q:\n%s", want, output)
		}
	}
}

func TestIndexIncompatibleVersion(t *testing.T) {
	repository := testutil.NewRepository(t)
	repository.WriteString("p2.index", "version=2\n")
	h := newHarness(t, "")

	err := h.run(append(h.withConfig("index"), repository.URL("p2.index").String())...)
	if err == nil || !strings.Contains(err.Error(), "incompatible version 2") {
		t.Errorf("error = %v, want an incompatible version error", err)
	}
}

func TestIndexRequiresOneArgument(t *testing.T) {
	h := newHarness(t, "")
	if err := h.run(h.withConfig("index")...); err == nil {
		t.Error("expected error without a URL")
	}
}

func TestCacheStatsAndClear(t *testing.T) {
	repository := testutil.NewRepository(t)
	repository.WriteString("artifacts.xml", leafListing("org.example.core"))
	h := newHarness(t, "")

	if err := h.run(h.withConfig("cache", "stats", "--json")...); err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	var stats fetch.Stats
	if err := json.Unmarshal(h.stdout.Bytes(), &stats); err != nil {
		t.Fatalf("cache stats --json output: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("fresh cache has %d entries", stats.Entries)
	}

	if err := h.run(h.withConfig("cache", "clear")...); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "removed 0 cached downloads") {
		t.Errorf("cache clear output: %q", h.stdout.String())
	}

	if err := h.run(h.withConfig("cache", "stats")...); err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "0 entries") {
		t.Errorf("cache stats output: %q", h.stdout.String())
	}
}

func TestInvalidConfigurationIsReported(t *testing.T) {
	h := newHarness(t, "snapshot:\n  compression: brotli\n")
	err := h.run(h.withConfig("cache", "stats")...)
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("error = %v, want invalid configuration", err)
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t, "")
	if err := h.run("version"); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(h.stdout.String(), "p2repo ") {
		t.Errorf("version output = %q", h.stdout.String())
	}
}

func TestUnknownCommandSuggestion(t *testing.T) {
	h := newHarness(t, "")
	err := h.run("reslove")
	if err == nil || !strings.Contains(err.Error(), `did you mean "resolve"`) {
		t.Errorf("error = %v", err)
	}
}
