package builtin

import (
	"strings"

	"salesetl/internal/records"
)

// Normalize trims string cells, folds non-breaking spaces and turns blank
// cells into nil so that "missing" has a single representation.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
			if s == "" {
				r[k] = nil
				continue
			}
			r[k] = s
		}
	}
	return in
}
