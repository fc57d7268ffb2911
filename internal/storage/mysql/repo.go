// Package mysql implements a MySQL-backed storage.Repository on database/sql
// and github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"salesetl/internal/storage/sqldb"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN       string // user:pass@tcp(host:port)/db
	BatchSize int
}

// Repository is the MySQL repository.
type Repository = sqldb.Repository

// NewRepository opens a MySQL pool and returns a Repository plus a Close
// function for cleanup. parseTime is forced on so DATE columns scan into
// time.Time.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	mc.ParseTime = true

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return sqldb.New(db, Dialect, cfg.BatchSize), closeFn, nil
}
