// Package quality holds the per-stage data-quality counters and the report
// value they are merged into at the end of a run.
package quality

import (
	"time"
)

// CustomerMetrics summarizes the customers transform.
type CustomerMetrics struct {
	Original      int `json:"original"`
	Duplicates    int `json:"duplicates"`
	MissingEmails int `json:"missing_emails"`
	MissingIDs    int `json:"missing_ids"`
	Final         int `json:"final"`
}

// ProductMetrics summarizes the products transform. Rows with missing stock
// are kept (stock defaults to 0) and only counted.
type ProductMetrics struct {
	Original      int `json:"original"`
	Duplicates    int `json:"duplicates"`
	MissingPrices int `json:"missing_prices"`
	MissingStock  int `json:"missing_stock"`
	MissingIDs    int `json:"missing_ids"`
	Final         int `json:"final"`
}

// SalesMetrics summarizes sales cleaning and reshaping. The Missing* counters
// are taken over the full input, before de-duplication; Dropped is the number
// of rows actually removed for missing keys after de-duplication.
type SalesMetrics struct {
	Original              int `json:"original"`
	Duplicates            int `json:"duplicates"`
	MissingCustomerIDs    int `json:"missing_customer_ids"`
	MissingProductIDs     int `json:"missing_product_ids"`
	MissingDates          int `json:"missing_dates"`
	MissingTransactionIDs int `json:"missing_transaction_ids"`
	Dropped               int `json:"dropped"`
	Orders                int `json:"orders"`
	OrderItems            int `json:"order_items"`
}

// ReconcileMetrics records what the referential pass removed and what is
// left for loading.
type ReconcileMetrics struct {
	OrdersFiltered     int `json:"orders_filtered"`
	OrderItemsFiltered int `json:"order_items_filtered"`
	OrdersFinal        int `json:"orders_final"`
	OrderItemsFinal    int `json:"order_items_final"`
}

// LoadStatus is the outcome of the load phase as shown in the report.
type LoadStatus struct {
	OK     bool             `json:"ok"`
	Table  string           `json:"table,omitempty"` // failing table, if any
	Error  string           `json:"error,omitempty"`
	Loaded map[string]int64 `json:"loaded,omitempty"`
}

// Report is the value object every stage contributes to. It is assembled by
// the pipeline and handed to a renderer once.
type Report struct {
	RunID       string    `json:"run_id"`
	Job         string    `json:"job"`
	GeneratedAt time.Time `json:"generated_at"`

	Customers CustomerMetrics  `json:"customers"`
	Products  ProductMetrics   `json:"products"`
	Sales     SalesMetrics     `json:"sales"`
	Reconcile ReconcileMetrics `json:"reconcile"`

	// ParseErrors counts malformed source rows skipped by the parser, per
	// input name.
	ParseErrors map[string]int `json:"parse_errors,omitempty"`

	// Fingerprints holds a content hash of every table handed to the loader.
	Fingerprints map[string]string `json:"fingerprints,omitempty"`

	Load *LoadStatus `json:"load,omitempty"`
}

// Summary holds the totals printed at the bottom of the report.
type Summary struct {
	Processed      int
	Loaded         int
	IssuesResolved int
}

// Summary computes run totals. Loaded counts the rows that survived
// reconciliation for the two derived tables.
func (r Report) Summary() Summary {
	return Summary{
		Processed: r.Customers.Original + r.Products.Original + r.Sales.Original,
		Loaded: r.Customers.Final + r.Products.Final +
			r.Reconcile.OrdersFinal + r.Reconcile.OrderItemsFinal,
		IssuesResolved: r.Customers.Duplicates + r.Products.Duplicates + r.Sales.Duplicates +
			r.Customers.MissingEmails + r.Products.MissingPrices +
			r.Reconcile.OrdersFiltered + r.Reconcile.OrderItemsFiltered,
	}
}

// TotalParseErrors sums ParseErrors over all inputs.
func (r Report) TotalParseErrors() int {
	n := 0
	for _, v := range r.ParseErrors {
		n += v
	}
	return n
}
