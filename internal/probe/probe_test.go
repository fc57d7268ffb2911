package probe

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesetl/internal/extract"
	"salesetl/internal/records"
)

func TestInspect_Customers(t *testing.T) {
	t.Parallel()

	set := records.Set{
		Name:    extract.Customers,
		Columns: []string{"customer_id", "first_name", "email"},
		Rows: []records.Record{
			{"customer_id": "C001", "email": "a@x.com"},
			{"customer_id": "C002", "email": nil},
			{"customer_id": " ", "email": "c@x.com"},
		},
	}

	res := Inspect(set, 2)
	assert.True(t, res.OK())
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, map[string]int{"customer_id": 1, "email": 1}, res.Blank)
}

func TestInspect_MissingColumns(t *testing.T) {
	t.Parallel()

	res := Inspect(records.Set{Name: extract.Products, Columns: []string{"product_id", "product_name"}}, 0)
	assert.False(t, res.OK())
	assert.Equal(t, []string{"price"}, res.Missing)

	res = Inspect(records.Set{Name: extract.Sales, Columns: []string{"transaction_id", "customer_id", "product_id"}}, 0)
	assert.Equal(t, []string{"transaction_date|order_date"}, res.Missing)
}

func TestInspect_SalesOrderDateFallback(t *testing.T) {
	t.Parallel()

	set := records.Set{
		Name:    extract.Sales,
		Columns: []string{"transaction_id", "customer_id", "product_id", "order_date"},
		Rows:    []records.Record{{"transaction_id": "T1", "customer_id": "C1", "product_id": "P1", "order_date": nil}},
	}
	res := Inspect(set, 0)
	assert.True(t, res.OK())
	assert.Equal(t, 1, res.Blank["order_date"])
}

func TestRunAndRender(t *testing.T) {
	t.Parallel()

	b := extract.Batch{
		Customers:   records.Set{Name: extract.Customers, Columns: []string{"customer_id", "email"}},
		Products:    records.Set{Name: extract.Products, Columns: []string{"product_id"}},
		Sales:       records.Set{Name: extract.Sales, Columns: []string{"transaction_id", "customer_id", "product_id", "transaction_date"}},
		ParseErrors: map[string]int{extract.Sales: 4},
	}
	results, err := Run(context.Background(), extract.Static(b))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 4, results[2].Skipped)

	var buf bytes.Buffer
	Render(&buf, results)
	out := buf.String()
	assert.Contains(t, out, "MISSING COLUMNS")
	assert.Contains(t, out, "price")
	assert.Contains(t, out, "customer_id=0 email=0")
	assert.Contains(t, out, "sales: transaction_id, customer_id, product_id, transaction_date\n")
}
