package builtin

import "salesetl/internal/records"

// Require removes any record missing a value for one of the specified fields.
type Require struct {
	Fields []string
}

// Apply returns a new slice containing only records that have all required
// fields present and non-empty. The input slice is left untouched.
func (r Require) Apply(in []records.Record) []records.Record {
	out := make([]records.Record, 0, len(in))
	for _, rec := range in {
		if r.satisfied(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (r Require) satisfied(rec records.Record) bool {
	for _, f := range r.Fields {
		if !rec.Present(f) {
			return false
		}
	}
	return true
}

// CountMissing returns how many records lack a value for field.
func CountMissing(in []records.Record, field string) int {
	n := 0
	for _, rec := range in {
		if !rec.Present(field) {
			n++
		}
	}
	return n
}
