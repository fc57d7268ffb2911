// Package schema declares the fixed destination tables. Column order matches
// the Values methods of the model types.
package schema

import "salesetl/internal/ddl"

// Table is a destination table definition.
type Table = ddl.TableDef

// Table names.
const (
	CustomersTable  = "customers"
	ProductsTable   = "products"
	OrdersTable     = "orders"
	OrderItemsTable = "order_items"
)

var Customers = Table{
	FQN: CustomersTable,
	Columns: []ddl.ColumnDef{
		{Name: "customer_id", Type: "int", PrimaryKey: true},
		{Name: "first_name", Type: "text", Nullable: true},
		{Name: "last_name", Type: "text", Nullable: true},
		{Name: "email", Type: "text"},
		{Name: "phone", Type: "text", Nullable: true},
		{Name: "city", Type: "text", Nullable: true},
		{Name: "registration_date", Type: "date", Nullable: true},
	},
}

var Products = Table{
	FQN: ProductsTable,
	Columns: []ddl.ColumnDef{
		{Name: "product_id", Type: "int", PrimaryKey: true},
		{Name: "product_name", Type: "text", Nullable: true},
		{Name: "category", Type: "text", Nullable: true},
		{Name: "price", Type: "float"},
		{Name: "stock_quantity", Type: "int", Default: "0"},
	},
}

var Orders = Table{
	FQN: OrdersTable,
	Columns: []ddl.ColumnDef{
		{Name: "order_id", Type: "int", PrimaryKey: true},
		{Name: "customer_id", Type: "int"},
		{Name: "order_date", Type: "date"},
		{Name: "total_amount", Type: "float"},
		{Name: "status", Type: "text", Default: "'Pending'"},
	},
	ForeignKeys: []ddl.ForeignKey{
		{Column: "customer_id", RefTable: CustomersTable, RefColumn: "customer_id"},
	},
}

var OrderItems = Table{
	FQN: OrderItemsTable,
	Columns: []ddl.ColumnDef{
		{Name: "order_item_id", Type: "int", PrimaryKey: true},
		{Name: "order_id", Type: "int"},
		{Name: "product_id", Type: "int"},
		{Name: "quantity", Type: "int", Nullable: true},
		{Name: "unit_price", Type: "float", Nullable: true},
		{Name: "subtotal", Type: "float", Nullable: true},
	},
	ForeignKeys: []ddl.ForeignKey{
		{Column: "order_id", RefTable: OrdersTable, RefColumn: "order_id"},
		{Column: "product_id", RefTable: ProductsTable, RefColumn: "product_id"},
	},
}

// All returns the tables parents first, the order they must be created and
// loaded in. Drop them in reverse.
func All() []Table {
	return []Table{Customers, Products, Orders, OrderItems}
}
