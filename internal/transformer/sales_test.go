package transformer

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesetl/internal/model"
)

var salesHeader = []string{"transaction_id", "customer_id", "product_id", "quantity", "unit_price", "transaction_date", "status"}

func TestCleanSales_Counters(t *testing.T) {
	t.Parallel()

	in := set(t, "sales", salesHeader,
		[]string{"T001", "C001", "P001", "2", "100", "2023-01-15", "Completed"},
		[]string{"T001", "C001", "P001", "2", "100", "2023-01-15", "Completed"},
		[]string{"T002", "", "P001", "1", "50", "15/01/2023", ""},
		[]string{"T003", "C002", "", "1", "50", "15/01/2023", ""},
		[]string{"T004", "C002", "P002", "1", "50", "", ""},
		[]string{"T005", "C002", "P002", "1", "50", "not a date", ""},
		[]string{"", "C002", "P002", "1", "50", "2023-01-15", ""},
	)

	lines, m, err := CleanSales(in, SalesOptions{})

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].TransactionID)
	assert.Equal(t, "2023-01-15", lines[0].OrderDate)

	assert.Equal(t, 7, m.Original)
	assert.Equal(t, 1, m.Duplicates)
	assert.Equal(t, 1, m.MissingCustomerIDs)
	assert.Equal(t, 1, m.MissingProductIDs)
	assert.Equal(t, 1, m.MissingDates)
	assert.Equal(t, 1, m.MissingTransactionIDs)
	assert.Equal(t, 5, m.Dropped)
}

func TestCleanSales_OrderDateColumnFallback(t *testing.T) {
	t.Parallel()

	in := set(t, "sales", []string{"transaction_id", "customer_id", "product_id", "order_date"},
		[]string{"T9", "C1", "P1", "20230115"},
	)
	lines, _, err := CleanSales(in, SalesOptions{})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "2023-01-15", lines[0].OrderDate)
	assert.False(t, lines[0].Quantity.Valid)
}

func TestCleanSales_MissingDateColumn(t *testing.T) {
	t.Parallel()

	_, _, err := CleanSales(set(t, "sales", []string{"transaction_id", "customer_id", "product_id"}), SalesOptions{})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReshapeSales_MissingProductDropped(t *testing.T) {
	t.Parallel()

	in := set(t, "sales", salesHeader,
		[]string{"T001", "C001", "P001", "1", "100", "2023-01-15", "Completed"},
		[]string{"T002", "C001", "", "3", "10", "2023-01-16", "Completed"},
	)

	orders, items, m, err := ReshapeSales(in, SalesOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, m.MissingProductIDs)
	require.Len(t, orders, 1)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), orders[0].OrderID)
	assert.Equal(t, int64(1), items[0].OrderID)
	assert.Equal(t, 1, m.Orders)
	assert.Equal(t, 1, m.OrderItems)
}

func TestReshapeSales_MultiLineTransactions(t *testing.T) {
	t.Parallel()

	in := set(t, "sales", salesHeader,
		[]string{"T001", "C001", "P001", "1", "100", "2023-01-15", ""},
		[]string{"T001", "C001", "P002", "5", "50", "2023-01-15", "Completed"},
		[]string{"T002", "C002", "P001", "1", "10", "2023-01-16", "Shipped"},
		[]string{"T001", "C009", "P003", "1", "1", "2023-01-15", ""},
	)

	orders, items, m, err := ReshapeSales(in, SalesOptions{DedupeKeys: []string{"transaction_id", "product_id"}})

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, model.Order{OrderID: 1, CustomerID: 1, OrderDate: "2023-01-15", TotalAmount: 350, Status: "Pending"}, orders[0])
	assert.Equal(t, model.Order{OrderID: 2, CustomerID: 2, OrderDate: "2023-01-16", TotalAmount: 10, Status: "Shipped"}, orders[1])

	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, int64(i+1), it.OrderItemID)
	}
	assert.Equal(t, 1, m.Dropped, "conflicting customer for T001 dropped")
}

func line(txn, cust int64, date string, qty int64, price float64, status string) model.SaleLine {
	l := model.SaleLine{
		TransactionID: txn,
		CustomerID:    cust,
		ProductID:     1,
		OrderDate:     date,
		Quantity:      sql.NullInt64{Int64: qty, Valid: true},
		UnitPrice:     sql.NullFloat64{Float64: price, Valid: true},
	}
	if status != "" {
		l.Status = sql.NullString{String: status, Valid: true}
	}
	return l
}

func TestBuildOrders_Aggregates(t *testing.T) {
	t.Parallel()

	lines := []model.SaleLine{
		line(7, 1, "2023-01-15", 1, 100, "Completed"),
		line(7, 1, "2023-01-15", 1, 250, "Cancelled"),
	}
	orders := BuildOrders(lines)

	require.Len(t, orders, 1)
	assert.Equal(t, 350.0, orders[0].TotalAmount)
	assert.Equal(t, "Completed", orders[0].Status, "status of first line")
}

func TestBuildOrders_FirstAppearanceOrderAndNullSubtotal(t *testing.T) {
	t.Parallel()

	noPrice := line(5, 1, "2023-01-01", 2, 0, "")
	noPrice.UnitPrice = sql.NullFloat64{}

	orders := BuildOrders([]model.SaleLine{
		line(9, 1, "2023-01-02", 1, 1, ""),
		noPrice,
		line(9, 1, "2023-01-02", 1, 2, ""),
	})

	require.Len(t, orders, 2)
	assert.Equal(t, int64(9), orders[0].OrderID)
	assert.Equal(t, 3.0, orders[0].TotalAmount)
	assert.Equal(t, int64(5), orders[1].OrderID)
	assert.Zero(t, orders[1].TotalAmount)
	assert.Equal(t, model.DefaultOrderStatus, orders[1].Status)
}

func TestBuildOrderItems(t *testing.T) {
	t.Parallel()

	l := line(3, 1, "2023-01-02", 4, 2.5, "")
	l.ProductID = 8
	items := BuildOrderItems([]model.SaleLine{l, line(4, 1, "2023-01-02", 1, 1, "")})

	require.Len(t, items, 2)
	assert.Equal(t, model.OrderItem{
		OrderItemID: 1,
		OrderID:     3,
		ProductID:   8,
		Quantity:    sql.NullInt64{Int64: 4, Valid: true},
		UnitPrice:   sql.NullFloat64{Float64: 2.5, Valid: true},
		Subtotal:    sql.NullFloat64{Float64: 10, Valid: true},
	}, items[0])
	assert.Equal(t, int64(2), items[1].OrderItemID)
}
