// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jwausle/bnd/cmd/p2repo/cli"
	"github.com/jwausle/bnd/lib/config"
	"github.com/jwausle/bnd/lib/fetch"
	"github.com/jwausle/bnd/lib/p2"
	"github.com/jwausle/bnd/lib/workpool"
)

// SessionFlags are the flags shared by every command that touches
// repositories or the cache.
type SessionFlags struct {
	Config   string `flag:"config" desc:"config file (default: $P2REPO_CONFIG)"`
	Offline  bool   `flag:"offline" desc:"serve from the cache only; uncached documents count as absent"`
	LogLevel string `flag:"log-level" desc:"debug, info, warn or error (overrides the config file)"`
}

// session is the configured machinery behind one command invocation.
type session struct {
	config   *config.Config
	logger   *slog.Logger
	pool     *workpool.Pool
	client   *fetch.Client
	resolver *p2.Resolver
}

// loadConfig reads the file named by path, or by P2REPO_CONFIG when
// path is empty. Without either, the defaults apply.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case os.Getenv(config.EnvVar) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func openSession(out streams, params SessionFlags, command string) (*session, error) {
	cfg, err := loadConfig(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Offline {
		cfg.Offline = true
	}
	if params.LogLevel != "" {
		cfg.Log.Level = params.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, err
	}

	logger := cli.NewCommandLogger(out.stderr, cfg.SlogLevel()).With("command", command)
	pool := workpool.New(cfg.Fetch.Workers)

	client, err := fetch.NewClient(fetch.Config{
		Dir:        cfg.Cache.Dir,
		MaxAge:     cfg.Cache.MaxAge,
		Offline:    cfg.Offline,
		Retries:    cfg.Fetch.Retries,
		RetryDelay: cfg.Fetch.RetryDelay,
		HTTPClient: &http.Client{Timeout: cfg.Fetch.Timeout},
		Pool:       pool,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	resolver, err := p2.NewResolver(p2.Config{
		Fetcher: client,
		Pool:    pool,
		Logger:  logger,
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	return &session{
		config:   cfg,
		logger:   logger,
		pool:     pool,
		client:   client,
		resolver: resolver,
	}, nil
}

func (s *session) Close() error {
	return s.client.Close()
}

// parseRoot parses an absolute repository locator. Plain paths are
// accepted and turned into file URLs.
func parseRoot(raw string) (*url.URL, error) {
	locator, err := url.Parse(raw)
	if err == nil && locator.IsAbs() {
		return locator, nil
	}
	if info, statErr := os.Stat(raw); statErr == nil {
		absolute, absErr := filepath.Abs(raw)
		if absErr != nil {
			return nil, absErr
		}
		path := filepath.ToSlash(absolute)
		if info.IsDir() {
			path += "/"
		}
		return &url.URL{Scheme: "file", Path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid repository locator %q: %w", raw, err)
	}
	return nil, fmt.Errorf("repository locator %q is neither an absolute URL nor an existing path", raw)
}
