package transformer

import (
	"errors"
	"fmt"

	"salesetl/internal/records"
)

// ErrMissingColumn is returned when a source lacks a column the destination
// schema cannot do without (an identifier or a required field). Optional
// columns may be absent.
var ErrMissingColumn = errors.New("required column missing")

func requireColumns(set records.Set, cols ...string) error {
	for _, c := range cols {
		if !set.HasColumn(c) {
			return fmt.Errorf("%s: %w: %q", set.Name, ErrMissingColumn, c)
		}
	}
	return nil
}

// firstColumn returns the first of cols present in the set's header.
func firstColumn(set records.Set, cols ...string) (string, bool) {
	for _, c := range cols {
		if set.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

// RequiredColumns lists the header columns the transform of input cannot do
// without. Sales also needs one of transaction_date or order_date.
func RequiredColumns(input string) []string {
	switch input {
	case "customers":
		return []string{colCustomerID, colEmail}
	case "products":
		return []string{colProductID, colPrice}
	case "sales":
		return []string{colTransactionID, colCustomerID, colProductID}
	}
	return nil
}

// DateColumns lists the accepted sales date columns in lookup order.
func DateColumns() []string {
	return []string{colTransactionDate, colOrderDate}
}
