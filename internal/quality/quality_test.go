package quality

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Summary(t *testing.T) {
	t.Parallel()

	r := Report{
		Customers: CustomerMetrics{Original: 10, Duplicates: 2, MissingEmails: 1, Final: 7},
		Products:  ProductMetrics{Original: 5, Duplicates: 1, MissingPrices: 1, MissingStock: 2, Final: 3},
		Sales:     SalesMetrics{Original: 20, Duplicates: 3},
		Reconcile: ReconcileMetrics{OrdersFiltered: 2, OrderItemsFiltered: 4, OrdersFinal: 12, OrderItemsFinal: 11},
	}

	s := r.Summary()
	assert.Equal(t, 35, s.Processed)
	assert.Equal(t, 7+3+12+11, s.Loaded)
	assert.Equal(t, 2+1+3+1+1+2+4, s.IssuesResolved)
}

func TestReport_TotalParseErrors(t *testing.T) {
	t.Parallel()

	r := Report{ParseErrors: map[string]int{"customers": 1, "sales": 2}}
	assert.Equal(t, 3, r.TotalParseErrors())
	assert.Zero(t, Report{}.TotalParseErrors())
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := [][]any{{int64(1), "a@x.com", sql.NullString{String: "Pune", Valid: true}}}
	b := [][]any{{int64(1), "a@x.com", sql.NullString{String: "Pune", Valid: true}}}
	c := [][]any{{int64(1), "a@x.com", sql.NullString{}}}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
	assert.Len(t, Fingerprint(nil), 16)

	// Whole floats hash like integers so a numeric column round-tripped
	// through the database keeps its fingerprint.
	assert.Equal(t, Fingerprint([][]any{{float64(3)}}), Fingerprint([][]any{{int64(3)}}))
}
