package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"salesetl/internal/schema"
)

// TableRows pairs a destination table with its rows.
type TableRows struct {
	Table schema.Table
	Rows  [][]any
}

// Loader replaces the destination tables in the order given (parents first).
type Loader struct {
	Repo Repository

	// Reset drops and recreates the tables before loading. Without it the
	// tables must exist; their rows are deleted children first.
	Reset bool

	Log *zap.Logger
}

// Load prepares the tables and replaces each in turn. The first failure stops
// the load and is returned as *LoadError; the counts of tables already
// written are still returned.
func (l Loader) Load(ctx context.Context, tables []TableRows) (map[string]int64, error) {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}

	defs := make([]schema.Table, len(tables))
	for i, t := range tables {
		defs[i] = t.Table
	}
	var prep error
	if l.Reset {
		prep = ResetTables(ctx, l.Repo, defs)
	} else {
		prep = ClearTables(ctx, l.Repo, defs)
	}
	if prep != nil {
		return nil, &LoadError{Table: "(ddl)", Err: prep}
	}

	loaded := make(map[string]int64, len(tables))
	for _, t := range tables {
		start := time.Now()
		n, err := l.Repo.ReplaceTable(ctx, t.Table, t.Rows)
		if err != nil {
			log.Error("loader: replace failed", zap.String("table", t.Table.FQN), zap.Error(err))
			return loaded, &LoadError{Table: t.Table.FQN, Err: err}
		}
		loaded[t.Table.FQN] = n
		log.Info("loader: table replaced",
			zap.String("table", t.Table.FQN),
			zap.Int64("inserted", n),
			zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
		)
	}
	return loaded, nil
}

// CopyFn inserts one batch of rows aligned to columns and returns the number
// of rows written.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches splits rows into batches of batchSize and calls copyFn for each.
// It returns the running total and the first error.
func LoadBatches(ctx context.Context, columns []string, rows [][]any, batchSize int, copyFn CopyFn) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var total int64
	for start := 0; start < len(rows); start += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		end := min(start+batchSize, len(rows))
		n, err := copyFn(ctx, columns, rows[start:end])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
