package bench

import (
	"context"
	"fmt"
	"testing"

	"salesetl/internal/records"
	"salesetl/internal/storage"
	"salesetl/internal/transformer"
)

// BenchmarkEndToEnd exercises the in-memory hot path: the three table
// transforms, reconciliation and the batch splitter feeding a fake insert.
//
// Run with:
//
//	go test -run=^$ -bench ^BenchmarkEndToEnd$ -cpuprofile cpu.out -memprofile mem.out -count=1
func BenchmarkEndToEnd(b *testing.B) {
	const n = 10_000
	customers, products, sales := syntheticSets(n)
	ctx := context.Background()
	opts := transformer.SalesOptions{DedupeKeys: []string{"transaction_id", "product_id"}}

	fakeInsert := func(_ context.Context, _ []string, rows [][]any) (int64, error) {
		return int64(len(rows)), nil
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cs, _, err := transformer.TransformCustomers(customers)
		if err != nil {
			b.Fatal(err)
		}
		ps, _, err := transformer.TransformProducts(products)
		if err != nil {
			b.Fatal(err)
		}
		orders, items, _, err := transformer.ReshapeSales(sales, opts)
		if err != nil {
			b.Fatal(err)
		}
		orders, items, _ = transformer.Reconcile(cs, ps, orders, items)

		rows := make([][]any, len(items))
		for j, it := range items {
			rows[j] = it.Values()
		}
		if _, err := storage.LoadBatches(ctx, nil, rows, storage.DefaultBatchSize, fakeInsert); err != nil {
			b.Fatal(err)
		}
		_ = orders
	}
	b.ReportMetric(float64(n*b.N)/b.Elapsed().Seconds(), "sales_rows/s")
}

// syntheticSets builds n sales lines over n/10 customers and n/20 products,
// with a sprinkling of duplicates and blanks.
func syntheticSets(n int) (records.Set, records.Set, records.Set) {
	customers := records.Set{
		Name:    "customers",
		Columns: []string{"customer_id", "first_name", "last_name", "email", "phone", "city", "registration_date"},
	}
	for i := 0; i < n/10; i++ {
		email := any(fmt.Sprintf("user%d@example.com", i))
		if i%25 == 0 {
			email = nil
		}
		customers.Rows = append(customers.Rows, records.Record{
			"customer_id":       fmt.Sprintf("C%04d", i),
			"first_name":        "Rahul",
			"last_name":         "Sharma",
			"email":             email,
			"phone":             "98765-43210",
			"city":              "bangalore",
			"registration_date": "15/01/2023",
		})
	}

	products := records.Set{
		Name:    "products",
		Columns: []string{"product_id", "product_name", "category", "price", "stock_quantity"},
	}
	for i := 0; i < n/20; i++ {
		products.Rows = append(products.Rows, records.Record{
			"product_id":     fmt.Sprintf("P%03d", i),
			"product_name":   "Laptop",
			"category":       "electronics",
			"price":          "45999.00",
			"stock_quantity": "50",
		})
	}

	sales := records.Set{
		Name:    "sales",
		Columns: []string{"transaction_id", "customer_id", "product_id", "quantity", "unit_price", "transaction_date", "status"},
	}
	for i := 0; i < n; i++ {
		sales.Rows = append(sales.Rows, records.Record{
			"transaction_id":   fmt.Sprintf("T%05d", i/2),
			"customer_id":      fmt.Sprintf("C%04d", (i/2)%(n/10)),
			"product_id":       fmt.Sprintf("P%03d", i%(n/20)),
			"quantity":         "2",
			"unit_price":       "100",
			"transaction_date": "2023-01-15",
			"status":           "Completed",
		})
	}
	return customers, products, sales
}
