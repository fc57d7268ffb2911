// Package model holds the typed, schema-conformant rows produced by the
// transform stage and consumed by the loader.
package model

import "database/sql"

// DefaultOrderStatus is used when a transaction carries no status.
const DefaultOrderStatus = "Pending"

// Customer is one row of the customers table.
type Customer struct {
	CustomerID       int64
	FirstName        sql.NullString
	LastName         sql.NullString
	Email            string
	Phone            sql.NullString
	City             sql.NullString
	RegistrationDate sql.NullString // YYYY-MM-DD
}

// Values returns the row aligned to schema.Customers column order.
func (c Customer) Values() []any {
	return []any{c.CustomerID, c.FirstName, c.LastName, c.Email, c.Phone, c.City, c.RegistrationDate}
}

// Product is one row of the products table.
type Product struct {
	ProductID     int64
	ProductName   sql.NullString
	Category      sql.NullString
	Price         float64
	StockQuantity int64
}

func (p Product) Values() []any {
	return []any{p.ProductID, p.ProductName, p.Category, p.Price, p.StockQuantity}
}

// Order is one row of the orders table: one per transaction.
type Order struct {
	OrderID     int64
	CustomerID  int64
	OrderDate   string // YYYY-MM-DD
	TotalAmount float64
	Status      string
}

func (o Order) Values() []any {
	return []any{o.OrderID, o.CustomerID, o.OrderDate, o.TotalAmount, o.Status}
}

// OrderItem is one row of the order_items table: one per transaction line.
type OrderItem struct {
	OrderItemID int64
	OrderID     int64
	ProductID   int64
	Quantity    sql.NullInt64
	UnitPrice   sql.NullFloat64
	Subtotal    sql.NullFloat64
}

func (i OrderItem) Values() []any {
	return []any{i.OrderItemID, i.OrderID, i.ProductID, i.Quantity, i.UnitPrice, i.Subtotal}
}

// SaleLine is a cleaned transaction line: identifiers normalized, date in ISO
// form. It is the input of the sales reshaper.
type SaleLine struct {
	TransactionID int64
	CustomerID    int64
	ProductID     int64
	OrderDate     string
	Quantity      sql.NullInt64
	UnitPrice     sql.NullFloat64
	Status        sql.NullString
}

// Subtotal is quantity x unit price; invalid when either side is missing.
func (l SaleLine) Subtotal() sql.NullFloat64 {
	if !l.Quantity.Valid || !l.UnitPrice.Valid {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: float64(l.Quantity.Int64) * l.UnitPrice.Float64, Valid: true}
}
