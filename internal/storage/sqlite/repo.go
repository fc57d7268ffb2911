// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and modernc.org/sqlite. Tables are replaced with batched
// multi-row INSERTs inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"salesetl/internal/storage/sqldb"
	sqliteddl "salesetl/internal/storage/sqlite/ddl"
)

// Repository is the SQLite repository.
type Repository = sqldb.Repository

// NewRepository opens a SQLite database and returns a Repository plus a Close
// function for cleanup.
//
// The pool is limited to one connection: SQLite serializes writers anyway,
// and an in-memory database only lives as long as its connection.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}

	closeFn := func() { _ = db.Close() }
	return sqldb.New(db, sqliteddl.Dialect, cfg.BatchSize), closeFn, nil
}
