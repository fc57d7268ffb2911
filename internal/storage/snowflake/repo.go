// Package snowflake implements a Snowflake-backed storage.Repository on
// database/sql and github.com/snowflakedb/gosnowflake. Snowflake accepts but
// does not enforce foreign keys; the reconciler already guarantees them.
package snowflake

import (
	"context"
	"database/sql"
	"fmt"

	sf "github.com/snowflakedb/gosnowflake"

	"salesetl/internal/storage/sqldb"
)

// Config holds Snowflake repository configuration.
type Config struct {
	DSN       string // user:pass@account/db/schema?warehouse=wh
	BatchSize int
}

// Repository is the Snowflake repository.
type Repository = sqldb.Repository

// NewRepository opens a Snowflake pool and returns a Repository plus a Close
// function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	sc, err := sf.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("snowflake dsn: %w", err)
	}
	db := sql.OpenDB(sf.NewConnector(sf.SnowflakeDriver{}, *sc))
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return sqldb.New(db, Dialect, cfg.BatchSize), closeFn, nil
}
