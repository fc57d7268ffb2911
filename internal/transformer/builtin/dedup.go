// Package builtin contains the reusable record-level transformers and the
// per-field normalizers used by the table transforms.
//
// DeDup collapses duplicate records by a configured key, keeping the earliest
// occurrence in the batch.
//
// Keys are built from the string form of the configured fields; nil values
// key as "\x00", so rows whose key could not be normalized are de-duplicated
// among themselves. Run DeDup after IDNormalize so keys are canonical.
package builtin

import (
	"fmt"
	"strings"

	"salesetl/internal/records"
)

// DeDup is an in-memory keep-first de-duplication.
type DeDup struct {
	// Keys are the field names forming the business key, e.g. ["customer_id"].
	Keys []string
}

// Apply returns a new slice holding the first record of each key, in input
// order. Records lacking one of the key fields entirely are passed through
// after the winners.
func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 || len(d.Keys) == 0 {
		return append([]records.Record(nil), in...)
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]records.Record, 0, len(in))
	var passthrough []records.Record
	for _, r := range in {
		key, ok := d.Key(r)
		if !ok {
			passthrough = append(passthrough, r)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return append(out, passthrough...)
}

// Key builds the composite key of r. It reports false when a key field is not
// present in the record at all.
func (d DeDup) Key(r records.Record) (string, bool) {
	var b strings.Builder
	for i, k := range d.Keys {
		v, ok := r[k]
		if !ok {
			return "", false
		}
		if i > 0 {
			b.WriteByte('\x1f')
		}
		switch t := v.(type) {
		case nil:
			b.WriteByte('\x00')
		case string:
			b.WriteString(t)
		default:
			b.WriteString(fmt.Sprint(t))
		}
	}
	return b.String(), true
}

// Duplicates counts the records that share a key with an earlier record, i.e.
// how many rows a keep-first DeDup would remove.
func (d DeDup) Duplicates(in []records.Record) int {
	seen := make(map[string]struct{}, len(in))
	n := 0
	for _, r := range in {
		key, ok := d.Key(r)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			n++
			continue
		}
		seen[key] = struct{}{}
	}
	return n
}
