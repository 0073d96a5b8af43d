// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/jwausle/bnd/lib/sqlitepool"
)

const indexSchema = `
CREATE TABLE IF NOT EXISTS entries (
	locator       TEXT PRIMARY KEY,
	path          TEXT NOT NULL,
	etag          TEXT NOT NULL DEFAULT '',
	last_modified TEXT NOT NULL DEFAULT '',
	fetched_at    INTEGER NOT NULL,
	size          INTEGER NOT NULL
);
`

// entry is one cached download. Path is relative to the cache
// directory so the directory can be moved.
type entry struct {
	Locator      string
	Path         string
	ETag         string
	LastModified string
	FetchedAt    time.Time
	Size         int64
}

// blobPath returns the cache-relative path for a locator's bytes.
func blobPath(locator string) string {
	digest := blake3.Sum256([]byte(locator))
	encoded := hex.EncodeToString(digest[:])
	return filepath.Join("blobs", encoded[:2], encoded)
}

// cacheIndex records cached downloads in SQLite.
type cacheIndex struct {
	pool *sqlitepool.Pool
}

// lookup returns the entry for locator, or nil when there is none.
func (index *cacheIndex) lookup(ctx context.Context, locator string) (*entry, error) {
	var found *entry
	err := index.pool.Read(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT path, etag, last_modified, fetched_at, size FROM entries WHERE locator = ?`,
			&sqlitex.ExecOptions{
				Args: []any{locator},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					found = &entry{
						Locator:      locator,
						Path:         stmt.ColumnText(0),
						ETag:         stmt.ColumnText(1),
						LastModified: stmt.ColumnText(2),
						FetchedAt:    time.Unix(0, stmt.ColumnInt64(3)),
						Size:         stmt.ColumnInt64(4),
					}
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("fetch: cache lookup %s: %w", locator, err)
	}
	return found, nil
}

func (index *cacheIndex) store(ctx context.Context, stored entry) error {
	err := index.pool.Write(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`INSERT INTO entries (locator, path, etag, last_modified, fetched_at, size)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(locator) DO UPDATE SET
			   path = excluded.path,
			   etag = excluded.etag,
			   last_modified = excluded.last_modified,
			   fetched_at = excluded.fetched_at,
			   size = excluded.size`,
			&sqlitex.ExecOptions{
				Args: []any{
					stored.Locator, stored.Path, stored.ETag, stored.LastModified,
					stored.FetchedAt.UnixNano(), stored.Size,
				},
			})
	})
	if err != nil {
		return fmt.Errorf("fetch: cache store %s: %w", stored.Locator, err)
	}
	return nil
}

// touch marks an entry as revalidated at fetchedAt.
func (index *cacheIndex) touch(ctx context.Context, locator string, fetchedAt time.Time) error {
	err := index.pool.Write(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`UPDATE entries SET fetched_at = ? WHERE locator = ?`,
			&sqlitex.ExecOptions{Args: []any{fetchedAt.UnixNano(), locator}})
	})
	if err != nil {
		return fmt.Errorf("fetch: cache touch %s: %w", locator, err)
	}
	return nil
}

func (index *cacheIndex) remove(ctx context.Context, locator string) error {
	return index.pool.Write(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`DELETE FROM entries WHERE locator = ?`,
			&sqlitex.ExecOptions{Args: []any{locator}})
	})
}

// totals returns the entry count and byte total.
func (index *cacheIndex) totals(ctx context.Context) (int, int64, error) {
	var count int
	var bytes int64
	err := index.pool.Read(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT COUNT(*), COALESCE(SUM(size), 0) FROM entries`,
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					count = stmt.ColumnInt(0)
					bytes = stmt.ColumnInt64(1)
					return nil
				},
			})
	})
	if err != nil {
		return 0, 0, fmt.Errorf("fetch: cache totals: %w", err)
	}
	return count, bytes, nil
}

func (index *cacheIndex) clear(ctx context.Context) (int, error) {
	var removed int
	err := index.pool.Write(ctx, func(conn *sqlite.Conn) error {
		if err := sqlitex.Execute(conn, `DELETE FROM entries`, nil); err != nil {
			return err
		}
		removed = conn.Changes()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("fetch: cache clear: %w", err)
	}
	return removed, nil
}
