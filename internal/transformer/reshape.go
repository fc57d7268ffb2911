package transformer

import (
	"salesetl/internal/model"
	"salesetl/internal/quality"
	"salesetl/internal/records"
)

// orderKey is the grouping tuple of a sales line.
type orderKey struct {
	transactionID int64
	customerID    int64
	orderDate     string
}

func keyOf(l model.SaleLine) orderKey {
	return orderKey{l.TransactionID, l.CustomerID, l.OrderDate}
}

// ReshapeSales cleans the sales set and splits it into orders and order items.
// Every returned item references a returned order.
func ReshapeSales(set records.Set, opts SalesOptions) ([]model.Order, []model.OrderItem, quality.SalesMetrics, error) {
	lines, m, err := CleanSales(set, opts)
	if err != nil {
		return nil, nil, m, err
	}
	lines, conflicts := dropConflictingLines(lines)
	m.Dropped += conflicts

	orders := BuildOrders(lines)
	items := BuildOrderItems(lines)
	m.Orders = len(orders)
	m.OrderItems = len(items)
	return orders, items, m, nil
}

// BuildOrders groups lines by (transaction_id, customer_id, order_date) in
// order of first appearance. total_amount is the sum of the non-null
// subtotals of the group and status comes from the group's first line,
// defaulting to "Pending".
func BuildOrders(lines []model.SaleLine) []model.Order {
	index := make(map[orderKey]int, len(lines))
	orders := make([]model.Order, 0, len(lines))
	for _, l := range lines {
		k := keyOf(l)
		i, ok := index[k]
		if !ok {
			status := model.DefaultOrderStatus
			if l.Status.Valid {
				status = l.Status.String
			}
			i = len(orders)
			index[k] = i
			orders = append(orders, model.Order{
				OrderID:    l.TransactionID,
				CustomerID: l.CustomerID,
				OrderDate:  l.OrderDate,
				Status:     status,
			})
		}
		if st := l.Subtotal(); st.Valid {
			orders[i].TotalAmount += st.Float64
		}
	}
	return orders
}

// BuildOrderItems emits one item per line, numbered from 1 in line order.
func BuildOrderItems(lines []model.SaleLine) []model.OrderItem {
	items := make([]model.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = model.OrderItem{
			OrderItemID: int64(i + 1),
			OrderID:     l.TransactionID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		}
	}
	return items
}

// dropConflictingLines removes lines whose transaction_id was already seen
// with a different customer or date. Orders are keyed by transaction_id, so
// such lines would produce a second order with the same id. This only
// happens when the dedupe key is wider than transaction_id.
func dropConflictingLines(lines []model.SaleLine) ([]model.SaleLine, int) {
	first := make(map[int64]orderKey, len(lines))
	out := lines[:0:0]
	for _, l := range lines {
		k := keyOf(l)
		if prev, ok := first[l.TransactionID]; ok && prev != k {
			continue
		}
		first[l.TransactionID] = k
		out = append(out, l)
	}
	return out, len(lines) - len(out)
}
