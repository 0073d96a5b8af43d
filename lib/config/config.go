// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable [Load] reads the config path
// from.
const EnvVar = "P2REPO_CONFIG"

// Config is the p2repo configuration.
type Config struct {
	// Repositories are the roots resolved when `p2repo resolve` is
	// run without positional URLs.
	Repositories []Repository `yaml:"repositories"`

	// Offline forbids network access. Only cached documents are read.
	Offline bool `yaml:"offline"`

	// Cache configures the local download cache.
	Cache CacheConfig `yaml:"cache"`

	// Fetch configures the download client and worker pool.
	Fetch FetchConfig `yaml:"fetch"`

	// Snapshot configures `resolve --save`.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Log configures the CLI logger.
	Log LogConfig `yaml:"log"`
}

// Repository is one named repository root.
type Repository struct {
	// Name labels the root in reports. Defaults to the URL.
	Name string `yaml:"name"`

	// URL is the root locator: a repository directory, a p2.index, or
	// a metadata document.
	URL string `yaml:"url"`
}

// CacheConfig configures the local download cache.
type CacheConfig struct {
	// Dir holds downloaded documents and the cache index.
	// Default: ${XDG_CACHE_HOME:-${HOME}/.cache}/p2repo
	Dir string `yaml:"dir"`

	// MaxAge is how long a cached document is served without
	// revalidation. Zero revalidates every time.
	// Default: 1h
	MaxAge time.Duration `yaml:"max_age"`
}

// FetchConfig configures the download client and worker pool.
type FetchConfig struct {
	// Workers bounds concurrent fetch and parse work. Zero picks
	// max(NumCPU, 4).
	Workers int `yaml:"workers"`

	// Retries is how many times a transient failure (5xx, 429,
	// connection reset) is retried.
	// Default: 2
	Retries int `yaml:"retries"`

	// RetryDelay is the wait before the first retry; it doubles for
	// each following attempt.
	// Default: 500ms
	RetryDelay time.Duration `yaml:"retry_delay"`

	// Timeout bounds a single HTTP request.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`
}

// SnapshotConfig configures `resolve --save`.
type SnapshotConfig struct {
	// Compression is one of none, lz4, zstd.
	// Default: zstd
	Compression string `yaml:"compression"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given. Values
// loaded from a file are merged over it.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Dir:    defaultCacheDir(),
			MaxAge: time.Hour,
		},
		Fetch: FetchConfig{
			Retries:    2,
			RetryDelay: 500 * time.Millisecond,
			Timeout:    60 * time.Second,
		},
		Snapshot: SnapshotConfig{Compression: "zstd"},
		Log:      LogConfig{Level: "info"},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "p2repo")
	}
	return filepath.Join(os.TempDir(), "p2repo-cache")
}

// Load loads configuration from the file named by P2REPO_CONFIG.
// It fails when the variable is not set; callers that can run without
// a file check the variable first.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your p2repo.yaml config file, or use --config flag", EnvVar)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// [Default], and expands variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// cache directory and repository URLs.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Cache.Dir = expandVars(c.Cache.Dir, vars)
	vars["P2REPO_CACHE"] = c.Cache.Dir

	for index := range c.Repositories {
		c.Repositories[index].URL = expandVars(c.Repositories[index].URL, vars)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, looking in
// vars before the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var (
	logLevels    = []string{"debug", "info", "warn", "error"}
	compressions = []string{"none", "lz4", "zstd"}
)

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	for index, repository := range c.Repositories {
		if repository.URL == "" {
			errs = append(errs, fmt.Errorf("repositories[%d].url is required", index))
			continue
		}
		parsed, err := url.Parse(repository.URL)
		if err != nil {
			errs = append(errs, fmt.Errorf("repositories[%d].url: %w", index, err))
			continue
		}
		if !parsed.IsAbs() {
			errs = append(errs, fmt.Errorf("repositories[%d].url %q must be absolute", index, repository.URL))
		}
	}

	if c.Cache.Dir == "" {
		errs = append(errs, fmt.Errorf("cache.dir is required"))
	}
	if c.Cache.MaxAge < 0 {
		errs = append(errs, fmt.Errorf("cache.max_age must not be negative"))
	}
	if c.Fetch.Workers < 0 {
		errs = append(errs, fmt.Errorf("fetch.workers must not be negative"))
	}
	if c.Fetch.Retries < 0 {
		errs = append(errs, fmt.Errorf("fetch.retries must not be negative"))
	}
	if c.Fetch.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("fetch.retry_delay must not be negative"))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must be positive"))
	}
	if !slices.Contains(compressions, c.Snapshot.Compression) {
		errs = append(errs, fmt.Errorf("snapshot.compression must be one of: %v", compressions))
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel returns Log.Level as a slog level. Unknown values map to
// info; Validate reports them.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EnsurePaths creates the cache directory if it does not exist.
func (c *Config) EnsurePaths() error {
	if err := os.MkdirAll(c.Cache.Dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", c.Cache.Dir, err)
	}
	return nil
}
