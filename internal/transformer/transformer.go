// Package transformer turns the raw customers, products and sales record sets
// into the typed rows of the destination schema and reconciles the derived
// tables against their parents.
//
// The table transforms share one skeleton: clone the input, normalize the
// primary identifier, count duplicates and missing required values, drop
// duplicates (first occurrence wins), drop rows missing a required value, run
// the field normalizers and project onto the model type. Row-level defects are
// never errors; they are counted in the returned quality metrics.
package transformer

import "salesetl/internal/records"

// Transformer is a record-level step. Implementations may reuse the input
// slice; callers that need the original must clone first.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
