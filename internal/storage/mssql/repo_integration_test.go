//go:build integration

package mssql

import (
	"context"
	"os"
	"testing"
	"time"

	"salesetl/internal/model"
	"salesetl/internal/schema"
	"salesetl/internal/storage"
)

// getTestDSN reads the MSSQL_TEST_DSN environment variable.
// If it is empty, the caller should skip the test.
func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("MSSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MSSQL_TEST_DSN not set; skipping MSSQL integration tests")
	}
	return dsn
}

// TestLoadIntegration resets and loads the destination tables against a real
// SQL Server, twice, to check that a re-run replaces rows.
func TestLoadIntegration(t *testing.T) {
	dsn := getTestDSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, closeFn, err := NewRepository(ctx, Config{DSN: dsn})
	if err != nil {
		t.Fatalf("NewRepository() error = %v, want nil", err)
	}
	w := &wrappedRepo{Repository: repo, closeFn: closeFn}
	defer w.Close()

	tables := []storage.TableRows{
		{Table: schema.Customers, Rows: [][]any{model.Customer{CustomerID: 1, Email: "a@x.com"}.Values()}},
		{Table: schema.Products, Rows: [][]any{model.Product{ProductID: 1, Price: 10}.Values()}},
		{Table: schema.Orders, Rows: [][]any{model.Order{OrderID: 1, CustomerID: 1, OrderDate: "2023-01-15", Status: "Pending"}.Values()}},
		{Table: schema.OrderItems, Rows: [][]any{model.OrderItem{OrderItemID: 1, OrderID: 1, ProductID: 1}.Values()}},
	}
	for i := 0; i < 2; i++ {
		loaded, err := storage.Loader{Repo: w, Reset: i == 0}.Load(ctx, tables)
		if err != nil {
			t.Fatalf("run %d: Load() error = %v", i, err)
		}
		if loaded["orders"] != 1 {
			t.Fatalf("run %d: loaded = %v", i, loaded)
		}
	}
}
