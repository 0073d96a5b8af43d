// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection pool behind the
// fetch client's cache index.
//
// It wraps zombiezen.com/go/sqlite's sqlitex.Pool with a fixed set of
// pragmas and an optional schema script that is applied to every
// connection when it is first used. Callers either [Pool.Take] and
// [Pool.Put] a connection themselves or use [Pool.Read] and
// [Pool.Write], which borrow a connection for the duration of one
// function and, for writes, wrap it in an immediate transaction.
//
// # Pragmas
//
//   - journal_mode=WAL: concurrent readers alongside a single writer,
//     so resolution branches reading the index never block a download
//     recording its result.
//   - synchronous=NORMAL: survives process crashes. The cache can
//     always be rebuilt from the network, so OS-crash durability is
//     not worth an fsync per commit.
//   - busy_timeout=5000: wait for the write lock instead of returning
//     SQLITE_BUSY immediately.
//   - temp_store=MEMORY.
//
// # Usage
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:   filepath.Join(cacheDir, "index.db"),
//	    Schema: schema,
//	    Logger: logger,
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	err = pool.Write(ctx, func(conn *sqlite.Conn) error {
//	    return sqlitex.Execute(conn, "DELETE FROM entries", nil)
//	})
package sqlitepool
