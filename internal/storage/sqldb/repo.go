// Package sqldb implements storage.Repository on top of database/sql for
// backends without a bulk-copy API (SQLite, MySQL, Snowflake). A table is
// replaced inside one transaction: DELETE, then batched multi-row INSERTs.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"salesetl/internal/ddl"
	"salesetl/internal/schema"
	"salesetl/internal/storage"
)

// Dialect extends the DDL dialect with the bind placeholder syntax.
type Dialect interface {
	ddl.Dialect
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string
}

// Repository is a database/sql backed storage.Repository without Close; the
// backend adapters own the *sql.DB.
type Repository struct {
	db        *sql.DB
	dialect   Dialect
	batchSize int
}

// New wraps db. A non-positive batchSize means storage.DefaultBatchSize.
func New(db *sql.DB, d Dialect, batchSize int) *Repository {
	if batchSize <= 0 {
		batchSize = storage.DefaultBatchSize
	}
	return &Repository{db: db, dialect: d, batchSize: batchSize}
}

// DB exposes the underlying pool.
func (r *Repository) DB() *sql.DB { return r.db }

// Dialect implements storage.Repository.
func (r *Repository) Dialect() ddl.Dialect { return r.dialect }

// ReplaceTable deletes every row of t and inserts rows in batches, all in one
// transaction. Nothing is committed on error.
func (r *Repository) ReplaceTable(ctx context.Context, t schema.Table, rows [][]any) (int64, error) {
	columns := t.ColumnNames()
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("row %d: length %d != columns length %d", i, len(row), len(columns))
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	table := ddl.QuoteFQN(r.dialect, t.FQN)
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		rollback()
		return 0, fmt.Errorf("delete: %w", err)
	}

	n, err := storage.LoadBatches(ctx, columns, rows, r.batchSize,
		func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
			stmt, args := r.insertSQL(table, columns, batch)
			res, err := tx.ExecContext(ctx, stmt, args...)
			if err != nil {
				return 0, fmt.Errorf("insert: %w", err)
			}
			if n, err := res.RowsAffected(); err == nil {
				return n, nil
			}
			return int64(len(batch)), nil
		})
	if err != nil {
		rollback()
		return n, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// insertSQL builds INSERT INTO t (c1, c2) VALUES (?, ?), (?, ?) for batch and
// returns the flattened arguments.
func (r *Repository) insertSQL(table string, columns []string, batch [][]any) (string, []any) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = r.dialect.QuoteIdent(c)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(batch)*len(columns))
	n := 0
	for i, row := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			n++
			sb.WriteString(r.dialect.Placeholder(n))
		}
		sb.WriteByte(')')
		args = append(args, row...)
	}
	return sb.String(), args
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if strings.TrimSpace(sqlText) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}
