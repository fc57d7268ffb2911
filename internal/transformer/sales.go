package transformer

import (
	"database/sql"

	"salesetl/internal/model"
	"salesetl/internal/quality"
	"salesetl/internal/records"
	"salesetl/internal/transformer/builtin"
)

const (
	colTransactionID   = "transaction_id"
	colTransactionDate = "transaction_date"
	colOrderDate       = "order_date"
	colQuantity        = "quantity"
	colUnitPrice       = "unit_price"
	colStatus          = "status"
)

// SalesOptions tunes sales cleaning.
type SalesOptions struct {
	// DedupeKeys is the business key of a transaction line. Defaults to
	// ["transaction_id"].
	DedupeKeys []string
}

// DefaultSalesDedupeKeys is used when SalesOptions.DedupeKeys is empty.
var DefaultSalesDedupeKeys = []string{colTransactionID}

// CleanSales normalizes identifiers and dates of the sales set, removes
// duplicate lines (first wins) and drops lines missing transaction_id,
// customer_id, product_id or a parseable date. The date is read from
// transaction_date, or order_date when the former is not in the header.
//
// The Missing* counters are taken over the whole input before
// de-duplication. Orders and OrderItems are left for the reshaper.
func CleanSales(set records.Set, opts SalesOptions) ([]model.SaleLine, quality.SalesMetrics, error) {
	var m quality.SalesMetrics
	if err := requireColumns(set, RequiredColumns("sales")...); err != nil {
		return nil, m, err
	}
	dateCol, ok := firstColumn(set, DateColumns()...)
	if !ok {
		return nil, m, requireColumns(set, colTransactionDate)
	}
	keys := opts.DedupeKeys
	if len(keys) == 0 {
		keys = DefaultSalesDedupeKeys
	}

	rows := Chain{
		builtin.Normalize{},
		builtin.IDNormalize{Fields: []string{colTransactionID, colCustomerID, colProductID}},
	}.Apply(records.CloneAll(set.Rows))

	dedup := builtin.DeDup{Keys: keys}
	m.Original = len(rows)
	m.Duplicates = dedup.Duplicates(rows)
	m.MissingTransactionIDs = builtin.CountMissing(rows, colTransactionID)
	m.MissingCustomerIDs = builtin.CountMissing(rows, colCustomerID)
	m.MissingProductIDs = builtin.CountMissing(rows, colProductID)
	m.MissingDates = builtin.CountMissing(rows, dateCol)

	rows = dedup.Apply(rows)
	for _, r := range rows {
		var date any
		if s, ok := r.Text(dateCol); ok {
			if d, ok := builtin.ParseDate(s); ok {
				date = d
			}
		}
		r[colOrderDate] = date
	}

	before := len(rows)
	rows = builtin.Require{Fields: []string{colTransactionID, colCustomerID, colProductID, colOrderDate}}.Apply(rows)
	m.Dropped = before - len(rows)

	out := make([]model.SaleLine, 0, len(rows))
	for _, r := range rows {
		l := model.SaleLine{
			TransactionID: r[colTransactionID].(int64),
			CustomerID:    r[colCustomerID].(int64),
			ProductID:     r[colProductID].(int64),
			OrderDate:     r[colOrderDate].(string),
			Status:        nullText(r, colStatus),
		}
		if n, ok := builtin.ParseCount(r[colQuantity]); ok {
			l.Quantity = sql.NullInt64{Int64: n, Valid: true}
		}
		if f, ok := builtin.ParseNumber(r[colUnitPrice]); ok {
			l.UnitPrice = sql.NullFloat64{Float64: f, Valid: true}
		}
		out = append(out, l)
	}
	return out, m, nil
}
