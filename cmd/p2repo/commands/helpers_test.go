// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jwausle/bnd/cmd/p2repo/cli"
)

const fixtureMappings = `
  <mappings size='2'>
    <rule filter='(classifier=osgi.bundle)' output='${repoUrl}/plugins/${id}_${version}.jar'/>
    <rule filter='(classifier=org.eclipse.update.feature)' output='${repoUrl}/features/${id}_${version}.jar'/>
  </mappings>`

func leafListing(ids ...string) string {
	var builder strings.Builder
	builder.WriteString("<?xml version='1.0' encoding='UTF-8'?>\n<repository name='fixture' version='1'>")
	builder.WriteString(fixtureMappings)
	builder.WriteString("\n  <artifacts>\n")
	for _, id := range ids {
		fmt.Fprintf(&builder, "    <artifact classifier='osgi.bundle' id='%s' version='1.0.0'/>\n", id)
	}
	builder.WriteString("  </artifacts>\n</repository>\n")
	return builder.String()
}

func compositeListing(children ...string) string {
	var builder strings.Builder
	builder.WriteString("<?xml version='1.0' encoding='UTF-8'?>\n<repository name='fixture' version='1.0.0'>\n  <children>\n")
	for _, child := range children {
		fmt.Fprintf(&builder, "    <child location='%s'/>\n", child)
	}
	builder.WriteString("  </children>\n</repository>\n")
	return builder.String()
}

// harness runs commands against an isolated cache and config file.
type harness struct {
	t          *testing.T
	configPath string
	stdout     bytes.Buffer
	stderr     bytes.Buffer
}

func newHarness(t *testing.T, extraConfig string) *harness {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "p2repo.yaml")
	content := fmt.Sprintf("cache:\n  dir: %s\nfetch:\n  workers: 4\n  retries: 0\nlog:\n  level: debug\n%s",
		filepath.Join(dir, "cache"), extraConfig)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return &harness{t: t, configPath: configPath}
}

// run executes p2repo with args, adding --config after the
// subcommand path, and returns the command's error.
func (h *harness) run(args ...string) error {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	root := newRoot(streams{stdout: &h.stdout, stderr: &h.stderr})
	return root.Execute(args)
}

func (h *harness) withConfig(command ...string) []string {
	return append(command, "--config", h.configPath)
}

// requireExitCode asserts err is a *cli.ExitError with code.
func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	exitError, ok := err.(*cli.ExitError)
	if !ok {
		t.Fatalf("error = %v (%T), want *cli.ExitError", err, err)
	}
	if exitError.Code != code {
		t.Fatalf("exit code = %d, want %d", exitError.Code, code)
	}
}
