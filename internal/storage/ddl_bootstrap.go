package storage

import (
	"context"
	"fmt"

	"salesetl/internal/ddl"
	"salesetl/internal/schema"
)

// ResetTables drops tables children first, then creates them parents first,
// using the repository's dialect. tables must be ordered parents first.
func ResetTables(ctx context.Context, repo Repository, tables []schema.Table) error {
	d := repo.Dialect()
	for i := len(tables) - 1; i >= 0; i-- {
		stmt, err := ddl.BuildDropTableSQL(d, tables[i].FQN)
		if err != nil {
			return err
		}
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop %s: %w", tables[i].FQN, err)
		}
	}
	for _, t := range tables {
		stmt, err := ddl.BuildCreateTableSQL(d, t)
		if err != nil {
			return err
		}
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", t.FQN, err)
		}
	}
	return nil
}

// ClearTables deletes all rows, children first, so parents can be replaced
// without tripping foreign keys.
func ClearTables(ctx context.Context, repo Repository, tables []schema.Table) error {
	d := repo.Dialect()
	for i := len(tables) - 1; i >= 0; i-- {
		stmt := "DELETE FROM " + ddl.QuoteFQN(d, tables[i].FQN)
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("clear %s: %w", tables[i].FQN, err)
		}
	}
	return nil
}
