// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package brain

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Config holds the parameters for opening the SQLite-backed brain.
// Path is required.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// parent directory must exist; the file is created if it does
	// not. Use ":memory:" in tests (pool size is forced to 1 since
	// each in-memory connection is independent).
	Path string

	// PoolSize is the number of connections in the pool. The bot is
	// a single logical actor, so a small pool suffices. If zero or
	// negative, defaults to 2 (one for the command path, one for the
	// reconciliation timer).
	PoolSize int

	// Logger receives operational messages. If nil, logging is
	// discarded.
	Logger *slog.Logger
}

// SQLite is a Brain backed by a SQLite database with a single
// kv(key, value) table. Safe for concurrent use; each call borrows a
// connection from the pool.
type SQLite struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
	path   string
}

// Open creates the SQLite brain, applying WAL and busy-timeout pragmas
// and the kv schema to every connection. The caller must call Close
// when done.
func Open(cfg Config) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("brain: Path is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 2
	}
	if cfg.Path == ":memory:" {
		poolSize = 1
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("brain: opening %s: %w", cfg.Path, err)
	}

	logger.Info("brain opened", "path", cfg.Path, "pool_size", poolSize)

	return &SQLite{
		pool:   pool,
		logger: logger,
		path:   cfg.Path,
	}, nil
}

// Get returns the blob stored under key, or found=false if the key has
// never been written.
func (b *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	conn, err := b.pool.Take(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("brain: take connection: %w", err)
	}
	defer b.pool.Put(conn)

	var blob []byte
	found := false
	err = sqlitex.Execute(conn, "SELECT value FROM kv WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			length := stmt.ColumnLen(0)
			blob = make([]byte, length)
			stmt.ColumnBytes(0, blob)
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("brain: get %q: %w", key, err)
	}
	return blob, found, nil
}

// Set stores blob under key, replacing any previous value.
func (b *SQLite) Set(ctx context.Context, key string, blob []byte) error {
	conn, err := b.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("brain: take connection: %w", err)
	}
	defer b.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value",
		&sqlitex.ExecOptions{Args: []any{key, blob}},
	)
	if err != nil {
		return fmt.Errorf("brain: set %q: %w", key, err)
	}
	return nil
}

// Close closes all pooled connections. Blocks until borrowed
// connections are returned.
func (b *SQLite) Close() error {
	if err := b.pool.Close(); err != nil {
		return fmt.Errorf("brain: closing %s: %w", b.path, err)
	}
	b.logger.Info("brain closed", "path", b.path)
	return nil
}

// prepareConnection applies standard pragmas and the kv schema. Runs
// once per connection, on first use.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}

	schema := "CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)"
	if err := sqlitex.ExecuteTransient(conn, schema, nil); err != nil {
		return fmt.Errorf("creating kv table: %w", err)
	}
	return nil
}
