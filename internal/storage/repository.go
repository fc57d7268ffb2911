// Package storage contains the storage-agnostic contracts: the Repository a
// backend implements, the factory backends register with, and the Loader that
// replaces the destination tables in dependency order.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"salesetl/internal/ddl"
	"salesetl/internal/schema"
)

// Repository is the contract every backend implements.
type Repository interface {
	// ReplaceTable replaces the full contents of t with rows inside a single
	// transaction and returns the number of rows written. Rows are aligned to
	// t's column order.
	ReplaceTable(ctx context.Context, t schema.Table, rows [][]any) (int64, error)

	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Dialect renders DDL for this backend.
	Dialect() ddl.Dialect

	Close()
}

// Config is the backend-agnostic connection configuration.
type Config struct {
	Kind string
	DSN  string

	// BatchSize bounds the rows per INSERT statement for backends without a
	// bulk-copy API. Zero means DefaultBatchSize.
	BatchSize int
}

// DefaultBatchSize is used when Config.BatchSize is zero.
const DefaultBatchSize = 500

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it
// from init.
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
