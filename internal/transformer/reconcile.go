package transformer

import (
	"salesetl/internal/model"
	"salesetl/internal/quality"
)

// Reconcile removes derived rows whose foreign keys do not resolve. Orders
// must reference a known customer; items must reference a surviving order
// and a known product, so dropping an order cascades to its items. Nothing
// is added or modified.
func Reconcile(
	customers []model.Customer,
	products []model.Product,
	orders []model.Order,
	items []model.OrderItem,
) ([]model.Order, []model.OrderItem, quality.ReconcileMetrics) {
	validCustomers := make(map[int64]struct{}, len(customers))
	for _, c := range customers {
		validCustomers[c.CustomerID] = struct{}{}
	}
	validProducts := make(map[int64]struct{}, len(products))
	for _, p := range products {
		validProducts[p.ProductID] = struct{}{}
	}

	keptOrders := make([]model.Order, 0, len(orders))
	validOrders := make(map[int64]struct{}, len(orders))
	for _, o := range orders {
		if _, ok := validCustomers[o.CustomerID]; !ok {
			continue
		}
		keptOrders = append(keptOrders, o)
		validOrders[o.OrderID] = struct{}{}
	}

	keptItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		_, orderOK := validOrders[it.OrderID]
		_, productOK := validProducts[it.ProductID]
		if orderOK && productOK {
			keptItems = append(keptItems, it)
		}
	}

	return keptOrders, keptItems, quality.ReconcileMetrics{
		OrdersFiltered:     len(orders) - len(keptOrders),
		OrderItemsFiltered: len(items) - len(keptItems),
		OrdersFinal:        len(keptOrders),
		OrderItemsFinal:    len(keptItems),
	}
}
