package quality

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Fingerprint returns a stable 64-bit hex digest of a table's rows. Two runs
// over the same cleaned data produce the same fingerprint, which makes
// idempotent re-runs easy to spot in reports.
func Fingerprint(rows [][]any) string {
	h := xxh3.New()
	var buf []byte
	for _, row := range rows {
		buf = buf[:0]
		for i, v := range row {
			if i > 0 {
				buf = append(buf, 0x1f)
			}
			buf = appendValue(buf, v)
		}
		buf = append(buf, '\n')
		_, _ = h.Write(buf)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func appendValue(buf []byte, v any) []byte {
	if val, ok := v.(driver.Valuer); ok {
		dv, err := val.Value()
		if err != nil {
			return append(buf, '!')
		}
		v = dv
	}
	switch t := v.(type) {
	case nil:
		return append(buf, 0)
	case int64:
		return strconv.AppendInt(buf, t, 10)
	case int:
		return strconv.AppendInt(buf, int64(t), 10)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.AppendInt(buf, int64(t), 10)
		}
		return strconv.AppendFloat(buf, t, 'f', -1, 64)
	case string:
		return append(buf, t...)
	case bool:
		return strconv.AppendBool(buf, t)
	default:
		return fmt.Append(buf, t)
	}
}
