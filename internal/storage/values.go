package storage

import (
	"database/sql/driver"
	"time"

	"salesetl/internal/schema"
)

// NativeRows returns a copy of rows with driver.Valuer values (sql.Null*)
// unwrapped and the ISO strings of "date" columns parsed into time.Time.
// Backends whose bulk APIs bind values by Go type use it; plain INSERTs can
// pass rows as they are.
func NativeRows(t schema.Table, rows [][]any) ([][]any, error) {
	isDate := make([]bool, len(t.Columns))
	for i, c := range t.Columns {
		isDate[i] = c.Type == "date"
	}
	out := make([][]any, len(rows))
	for r, row := range rows {
		conv := make([]any, len(row))
		for i, v := range row {
			if val, ok := v.(driver.Valuer); ok {
				dv, err := val.Value()
				if err != nil {
					return nil, err
				}
				v = dv
			}
			if s, ok := v.(string); ok && i < len(isDate) && isDate[i] {
				d, err := time.Parse(time.DateOnly, s)
				if err != nil {
					return nil, err
				}
				v = d
			}
			conv[i] = v
		}
		out[r] = conv
	}
	return out, nil
}
