// Package records defines the loosely typed row representation shared by the
// parsers and the record-level transformers.
package records

import (
	"fmt"
	"strings"
)

// Record is a single source row keyed by canonical column name. Values coming
// out of the parsers are either a string or nil (absent). Transformers may
// replace values with typed ones (e.g. int64 after identifier normalization).
type Record map[string]any

// Clone returns a shallow copy of r. Values are immutable scalars, so a
// shallow copy is enough to keep the source snapshot untouched.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Text returns the trimmed string form of column col and whether it holds a
// value. nil, missing and blank values all report false.
func (r Record) Text(col string) (string, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// Present reports whether col holds a non-empty value.
func (r Record) Present(col string) bool {
	_, ok := r.Text(col)
	return ok
}

// Set is a named collection of records, e.g. the "customers" input.
type Set struct {
	Name    string
	Columns []string
	Rows    []Record
}

// HasColumn reports whether the set's header carried col.
func (s Set) HasColumn(col string) bool {
	for _, c := range s.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// CloneAll deep-copies a slice of records.
func CloneAll(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
