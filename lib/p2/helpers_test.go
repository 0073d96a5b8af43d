// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jwausle/bnd/lib/fetch"
	"github.com/jwausle/bnd/lib/workpool"
)

const standardMappings = `
  <mappings size='3'>
    <rule filter='(&amp; (classifier=osgi.bundle) (format=packed))' output='${repoUrl}/plugins/${id}_${version}.jar.pack.gz'/>
    <rule filter='(&amp; (classifier=osgi.bundle))' output='${repoUrl}/plugins/${id}_${version}.jar'/>
    <rule filter='(&amp; (classifier=org.eclipse.update.feature))' output='${repoUrl}/features/${id}_${version}.jar'/>
  </mappings>`

// leafDocument renders an artifacts.xml listing one 1.0.0 bundle per id.
func leafDocument(ids ...string) string {
	var builder strings.Builder
	builder.WriteString("<?xml version='1.0' encoding='UTF-8'?>\n")
	builder.WriteString("<?artifactRepository version='1.1.0'?>\n")
	builder.WriteString("<repository name='fixture' type='org.eclipse.equinox.p2.artifact.repository.simpleRepository' version='1'>")
	builder.WriteString(standardMappings)
	fmt.Fprintf(&builder, "\n  <artifacts size='%d'>\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(&builder, "    <artifact classifier='osgi.bundle' id='%s' version='1.0.0'/>\n", id)
	}
	builder.WriteString("  </artifacts>\n</repository>\n")
	return builder.String()
}

// compositeDocument renders a compositeArtifacts.xml with the given
// child locations.
func compositeDocument(children ...string) string {
	var builder strings.Builder
	builder.WriteString("<?xml version='1.0' encoding='UTF-8'?>\n")
	builder.WriteString("<?compositeArtifactRepository version='1.0.0'?>\n")
	builder.WriteString("<repository name='fixture' type='org.eclipse.equinox.internal.p2.artifact.repository.CompositeArtifactRepository' version='1.0.0'>\n")
	fmt.Fprintf(&builder, "  <children size='%d'>\n", len(children))
	for _, child := range children {
		fmt.Fprintf(&builder, "    <child location='%s'/>\n", child)
	}
	builder.WriteString("  </children>\n</repository>\n")
	return builder.String()
}

// recordingHandler keeps every log record for inspection.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (handler *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (handler *recordingHandler) Handle(_ context.Context, record slog.Record) error {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	handler.records = append(handler.records, record.Clone())
	return nil
}

func (handler *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return handler }
func (handler *recordingHandler) WithGroup(string) slog.Handler      { return handler }

// count returns how many records have the given level and message.
func (handler *recordingHandler) count(level slog.Level, message string) int {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	count := 0
	for _, record := range handler.records {
		if record.Level == level && record.Message == message {
			count++
		}
	}
	return count
}

// countLevel returns how many records have the given level.
func (handler *recordingHandler) countLevel(level slog.Level) int {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	count := 0
	for _, record := range handler.records {
		if record.Level == level {
			count++
		}
	}
	return count
}

// newTestResolver returns a resolver over a caching fetch client with
// the given worker count, and the handler its logs go to.
func newTestResolver(t *testing.T, workers int) (*Resolver, *recordingHandler) {
	t.Helper()
	handler := &recordingHandler{}
	logger := slog.New(handler)
	pool := workpool.New(workers)

	client, err := fetch.NewClient(fetch.Config{Dir: t.TempDir(), Pool: pool, Logger: logger})
	if err != nil {
		t.Fatalf("fetch.NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	resolver, err := NewResolver(Config{Fetcher: client, Pool: pool, Logger: logger})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return resolver, handler
}

func resolveWithTimeout(t *testing.T, resolver *Resolver, root *url.URL) (*Result, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return resolver.Resolve(ctx, root)
}

func artifactIDs(artifacts []Artifact) []string {
	ids := make([]string, len(artifacts))
	for index, artifact := range artifacts {
		ids[index] = artifact.ID
	}
	return ids
}

func nonDefaultFailures(result *Result) []Failure {
	var failures []Failure
	for _, failure := range result.Failures {
		if !failure.Default {
			failures = append(failures, failure)
		}
	}
	return failures
}
