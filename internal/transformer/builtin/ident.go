package builtin

import (
	"math"
	"strconv"
	"strings"

	"salesetl/internal/records"
)

// NormalizeID converts a prefixed identifier such as "C001" or "T1007" into
// its numeric form by dropping every non-digit character. Digits split by
// letters are concatenated ("C0A1" -> 1). It returns false when the value is
// absent or no digits remain.
//
// Already-numeric values (after a previous pass) are accepted as-is so that
// running the transform twice yields the same ids.
func NormalizeID(v any) (int64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int64:
		return t, t >= 0
	case int:
		return int64(t), t >= 0
	case float64:
		if math.IsNaN(t) || t < 0 || t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case string:
		return parseDigits(t)
	default:
		return 0, false
	}
}

func parseDigits(s string) (int64, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		// more digits than int64 can hold
		return 0, false
	}
	return n, true
}

// IDNormalize rewrites the configured identifier columns in place: the value
// becomes an int64, or nil when it cannot be normalized.
type IDNormalize struct {
	Fields []string
}

func (n IDNormalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range n.Fields {
			if id, ok := NormalizeID(r[f]); ok {
				r[f] = id
			} else {
				r[f] = nil
			}
		}
	}
	return in
}
