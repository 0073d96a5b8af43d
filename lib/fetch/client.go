// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jwausle/bnd/lib/clock"
	"github.com/jwausle/bnd/lib/netutil"
	"github.com/jwausle/bnd/lib/sqlitepool"
	"github.com/jwausle/bnd/lib/version"
	"github.com/jwausle/bnd/lib/workpool"
)

// Fetcher retrieves documents by locator.
type Fetcher interface {
	// Fetch returns the document named by locator, or an error
	// wrapping ErrNotFound when there is none.
	Fetch(ctx context.Context, locator *url.URL) (*File, error)

	// FetchAsync is Fetch run as a pool task.
	FetchAsync(ctx context.Context, locator *url.URL) *workpool.Future[*File]
}

// Config holds the parameters for creating a Client.
type Config struct {
	// Dir is the cache directory. Required. Created if missing.
	Dir string

	// MaxAge is how long a cached entry is served without
	// revalidation. Zero revalidates on every fetch.
	MaxAge time.Duration

	// Offline forbids network access.
	Offline bool

	// Retries is the number of additional attempts after a transient
	// failure.
	Retries int

	// RetryDelay is the wait before the first retry. Each following
	// retry waits twice as long.
	RetryDelay time.Duration

	// HTTPClient is the client for http and https locators. If nil,
	// a client with a 60 second timeout is used.
	HTTPClient *http.Client

	// Pool runs FetchAsync tasks. If nil, a pool with the default
	// worker count is created.
	Pool *workpool.Pool

	// Clock measures cache age and retry backoff. If nil, the real
	// clock is used.
	Clock clock.Clock

	// Logger receives download and retry messages. If nil,
	// slog.Default() is used.
	Logger *slog.Logger
}

// Client is a caching Fetcher. It is safe for concurrent use.
type Client struct {
	dir        string
	maxAge     time.Duration
	offline    bool
	retries    int
	retryDelay time.Duration
	httpClient *http.Client
	pool       *workpool.Pool
	index      *cacheIndex
	sqlite     *sqlitepool.Pool
	clock      clock.Clock
	logger     *slog.Logger
}

var _ Fetcher = (*Client)(nil)

// NewClient opens the cache in config.Dir. The caller must Close the
// client when done.
func NewClient(config Config) (*Client, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("fetch: Dir is required")
	}
	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("fetch: creating cache directory: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	pool := config.Pool
	if pool == nil {
		pool = workpool.New(0)
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	database, err := sqlitepool.Open(sqlitepool.Config{
		Path:   filepath.Join(config.Dir, "index.db"),
		Schema: indexSchema,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch: opening cache index: %w", err)
	}

	return &Client{
		dir:        config.Dir,
		maxAge:     config.MaxAge,
		offline:    config.Offline,
		retries:    max(config.Retries, 0),
		retryDelay: config.RetryDelay,
		httpClient: httpClient,
		pool:       pool,
		index:      &cacheIndex{pool: database},
		sqlite:     database,
		clock:      clk,
		logger:     logger,
	}, nil
}

// Close releases the cache index.
func (client *Client) Close() error {
	return client.sqlite.Close()
}

// Pool returns the worker pool FetchAsync submits to.
func (client *Client) Pool() *workpool.Pool {
	return client.pool
}

// FetchAsync runs Fetch while holding a worker slot.
func (client *Client) FetchAsync(ctx context.Context, locator *url.URL) *workpool.Future[*File] {
	return workpool.Submit(ctx, client.pool, func() (*File, error) {
		return client.Fetch(ctx, locator)
	})
}

// Fetch returns the document named by locator.
func (client *Client) Fetch(ctx context.Context, locator *url.URL) (*File, error) {
	switch locator.Scheme {
	case "file":
		return fetchLocal(locator)
	case "http", "https":
		return client.fetchRemote(ctx, locator)
	default:
		return nil, fmt.Errorf("fetch: unsupported scheme %q in %s", locator.Scheme, locator)
	}
}

func fetchLocal(locator *url.URL) (*File, error) {
	path := filepath.FromSlash(locator.Path)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", locator, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("fetch: %s is a directory", locator)
	}
	return &File{Path: path, ModTime: info.ModTime(), Size: info.Size(), FromCache: true}, nil
}

func (client *Client) fetchRemote(ctx context.Context, locator *url.URL) (*File, error) {
	key := locator.String()

	cached, err := client.index.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if cached != nil && !client.blobExists(cached) {
		client.logger.Debug("cache entry lost its blob", "locator", key)
		cached = nil
	}

	if client.offline {
		if cached == nil {
			return nil, fmt.Errorf("%s (offline, not cached): %w", key, ErrNotFound)
		}
		return client.cachedFile(cached), nil
	}

	if cached != nil && client.clock.Now().Sub(cached.FetchedAt) < client.maxAge {
		return client.cachedFile(cached), nil
	}

	return client.download(ctx, locator, cached)
}

// download retries transient failures with doubling delays.
func (client *Client) download(ctx context.Context, locator *url.URL, cached *entry) (*File, error) {
	delay := client.retryDelay
	for attempt := 0; ; attempt++ {
		file, err := client.downloadOnce(ctx, locator, cached)
		if err == nil || attempt >= client.retries || !isRetryable(err) {
			return file, err
		}
		client.logger.Debug("retrying download",
			"locator", locator.String(),
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)
		select {
		case <-client.clock.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay *= 2
	}
}

func (client *Client) downloadOnce(ctx context.Context, locator *url.URL, cached *entry) (*File, error) {
	key := locator.String()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: creating request: %w", err)
	}
	request.Header.Set("User-Agent", version.UserAgent())
	if cached != nil {
		if cached.ETag != "" {
			request.Header.Set("If-None-Match", cached.ETag)
		}
		if cached.LastModified != "" {
			request.Header.Set("If-Modified-Since", cached.LastModified)
		}
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch: GET %s: %w", key, err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusNotModified && cached != nil:
		now := client.clock.Now()
		if err := client.index.touch(ctx, key, now); err != nil {
			return nil, err
		}
		client.logger.Debug("cache revalidated", "locator", key)
		return client.cachedFile(cached), nil
	case response.StatusCode == http.StatusNotFound || response.StatusCode == http.StatusGone:
		if cached != nil {
			if err := client.index.remove(ctx, key); err != nil {
				client.logger.Warn("dropping vanished cache entry failed", "locator", key, "error", err)
			}
		}
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	case response.StatusCode < 200 || response.StatusCode >= 300:
		return nil, &HTTPError{
			URL:        key,
			StatusCode: response.StatusCode,
			Body:       netutil.ErrorBody(response.Body),
		}
	}

	relative := blobPath(key)
	size, err := netutil.DownloadFile(response.Body, filepath.Join(client.dir, relative))
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	stored := entry{
		Locator:      key,
		Path:         relative,
		ETag:         response.Header.Get("ETag"),
		LastModified: response.Header.Get("Last-Modified"),
		FetchedAt:    client.clock.Now(),
		Size:         size,
	}
	if err := client.index.store(ctx, stored); err != nil {
		return nil, err
	}
	client.logger.Debug("downloaded", "locator", key, "bytes", size)

	file := client.cachedFile(&stored)
	file.FromCache = false
	return file, nil
}

func (client *Client) blobExists(cached *entry) bool {
	_, err := os.Stat(filepath.Join(client.dir, cached.Path))
	return err == nil
}

func (client *Client) cachedFile(cached *entry) *File {
	path := filepath.Join(client.dir, cached.Path)
	file := &File{Path: path, Size: cached.Size, FromCache: true}
	if cached.LastModified != "" {
		if modTime, err := http.ParseTime(cached.LastModified); err == nil {
			file.ModTime = modTime
			return file
		}
	}
	if info, err := os.Stat(path); err == nil {
		file.ModTime = info.ModTime()
	}
	return file
}

// Stats summarizes the cache contents.
type Stats struct {
	Dir     string `json:"dir"`
	Entries int    `json:"entries"`
	Bytes   int64  `json:"bytes"`
}

// Stats reports the number and total size of cached downloads.
func (client *Client) Stats(ctx context.Context) (Stats, error) {
	count, bytes, err := client.index.totals(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Dir: client.dir, Entries: count, Bytes: bytes}, nil
}

// Clear removes every cached download and returns how many entries
// were dropped.
func (client *Client) Clear(ctx context.Context) (int, error) {
	removed, err := client.index.clear(ctx)
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(filepath.Join(client.dir, "blobs")); err != nil {
		return removed, fmt.Errorf("fetch: removing blobs: %w", err)
	}
	client.logger.Info("cache cleared", "dir", client.dir, "entries", removed)
	return removed, nil
}
