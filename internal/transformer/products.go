package transformer

import (
	"database/sql"

	"salesetl/internal/model"
	"salesetl/internal/quality"
	"salesetl/internal/records"
	"salesetl/internal/transformer/builtin"
)

const (
	colProductID     = "product_id"
	colProductName   = "product_name"
	colCategory      = "category"
	colPrice         = "price"
	colStockQuantity = "stock_quantity"
)

// TransformProducts cleans the products set. price is required and must be a
// non-negative number; anything else counts as missing. A missing or
// unparseable stock_quantity becomes 0 and is counted, not dropped.
func TransformProducts(set records.Set) ([]model.Product, quality.ProductMetrics, error) {
	var m quality.ProductMetrics
	if err := requireColumns(set, RequiredColumns("products")...); err != nil {
		return nil, m, err
	}

	rows := Chain{
		builtin.Normalize{},
		builtin.IDNormalize{Fields: []string{colProductID}},
		validPrice{},
	}.Apply(records.CloneAll(set.Rows))

	dedup := builtin.DeDup{Keys: []string{colProductID}}
	m.Original = len(rows)
	m.Duplicates = dedup.Duplicates(rows)
	m.MissingPrices = builtin.CountMissing(rows, colPrice)
	for _, r := range rows {
		if _, ok := stock(r); !ok {
			m.MissingStock++
		}
	}

	rows = dedup.Apply(rows)
	rows = builtin.Require{Fields: []string{colPrice}}.Apply(rows)
	before := len(rows)
	rows = builtin.Require{Fields: []string{colProductID}}.Apply(rows)
	m.MissingIDs = before - len(rows)

	out := make([]model.Product, 0, len(rows))
	for _, r := range rows {
		p := model.Product{
			ProductID:   r[colProductID].(int64),
			ProductName: nullText(r, colProductName),
			Price:       r[colPrice].(float64),
		}
		if s, ok := r.Text(colCategory); ok {
			p.Category = sql.NullString{String: builtin.TitleCase(s), Valid: true}
		}
		p.StockQuantity, _ = stock(r)
		out = append(out, p)
	}
	m.Final = len(out)
	return out, m, nil
}

// validPrice replaces the price cell with a float64, or nil when it is absent,
// unparseable or negative.
type validPrice struct{}

func (validPrice) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		f, ok := builtin.ParseNumber(r[colPrice])
		if !ok || f < 0 {
			r[colPrice] = nil
			continue
		}
		r[colPrice] = f
	}
	return in
}

func stock(r records.Record) (int64, bool) {
	n, ok := builtin.ParseCount(r[colStockQuantity])
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}
