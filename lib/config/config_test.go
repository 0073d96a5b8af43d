// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "p2repo.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Cache.MaxAge != time.Hour {
		t.Errorf("expected max_age=1h, got %s", cfg.Cache.MaxAge)
	}
	if cfg.Snapshot.Compression != "zstd" {
		t.Errorf("expected compression=zstd, got %s", cfg.Snapshot.Compression)
	}
	if cfg.Cache.Dir == "" {
		t.Error("expected a default cache dir")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestLoad_RequiresEnvVar(t *testing.T) {
	t.Setenv(EnvVar, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when P2REPO_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "P2REPO_CONFIG environment variable not set") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestLoad_WithEnvVar(t *testing.T) {
	path := writeConfig(t, `
repositories:
  - name: platform
    url: https://download.example.org/releases/2026-03/
offline: true
cache:
  dir: /tmp/p2-test-cache
  max_age: 15m
fetch:
  workers: 8
  retries: 5
  retry_delay: 2s
snapshot:
  compression: lz4
log:
  level: debug
`)
	t.Setenv(EnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Repositories) != 1 || cfg.Repositories[0].Name != "platform" {
		t.Fatalf("repositories = %+v", cfg.Repositories)
	}
	if !cfg.Offline {
		t.Error("expected offline=true")
	}
	if cfg.Cache.Dir != "/tmp/p2-test-cache" {
		t.Errorf("cache.dir = %s", cfg.Cache.Dir)
	}
	if cfg.Cache.MaxAge != 15*time.Minute {
		t.Errorf("cache.max_age = %s", cfg.Cache.MaxAge)
	}
	if cfg.Fetch.Workers != 8 || cfg.Fetch.Retries != 5 || cfg.Fetch.RetryDelay != 2*time.Second {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}
	// Unset fields keep their defaults.
	if cfg.Fetch.Timeout != 60*time.Second {
		t.Errorf("fetch.timeout = %s, want default 60s", cfg.Fetch.Timeout)
	}
	if cfg.Snapshot.Compression != "lz4" {
		t.Errorf("snapshot.compression = %s", cfg.Snapshot.Compression)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v", cfg.SlogLevel())
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeConfig(t, "cache: [unterminated\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestExpandVariables(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("P2_MIRROR", "https://mirror.example.org")
	path := writeConfig(t, `
cache:
  dir: ${HOME}/p2cache
repositories:
  - url: ${P2_MIRROR}/updates/
  - url: ${P2_UNSET:-https://fallback.example.org}/site/
  - url: file://${P2REPO_CACHE}/local/
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	want := []string{
		"https://mirror.example.org/updates/",
		"https://fallback.example.org/site/",
		"file:///home/tester/p2cache/local/",
	}
	if cfg.Cache.Dir != "/home/tester/p2cache" {
		t.Errorf("cache.dir = %s", cfg.Cache.Dir)
	}
	for index, repository := range cfg.Repositories {
		if repository.URL != want[index] {
			t.Errorf("repositories[%d].url = %s, want %s", index, repository.URL, want[index])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name: "relative repository",
			mutate: func(c *Config) {
				c.Repositories = []Repository{{URL: "releases/latest"}}
			},
			wantErr: []string{"must be absolute"},
		},
		{
			name: "missing repository url",
			mutate: func(c *Config) {
				c.Repositories = []Repository{{Name: "empty"}}
			},
			wantErr: []string{"repositories[0].url is required"},
		},
		{
			name: "multiple problems reported together",
			mutate: func(c *Config) {
				c.Snapshot.Compression = "gzip"
				c.Log.Level = "trace"
				c.Fetch.Retries = -1
			},
			wantErr: []string{"snapshot.compression", "log.level", "fetch.retries"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			if len(test.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			for _, fragment := range test.wantErr {
				if !strings.Contains(err.Error(), fragment) {
					t.Errorf("error %q does not mention %q", err, fragment)
				}
			}
		})
	}
}

func TestEnsurePaths(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "nested", "cache")
	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths: %v", err)
	}
	if info, err := os.Stat(cfg.Cache.Dir); err != nil || !info.IsDir() {
		t.Fatalf("cache dir not created: %v", err)
	}
}
