package transformer

import (
	"testing"

	"salesetl/internal/records"
)

// set builds a record set from a header and string rows; "" becomes nil the
// way the CSV parser emits empty cells.
func set(t *testing.T, name string, header []string, rows ...[]string) records.Set {
	t.Helper()
	s := records.Set{Name: name, Columns: header}
	for _, row := range rows {
		if len(row) != len(header) {
			t.Fatalf("row %v does not match header %v", row, header)
		}
		r := make(records.Record, len(header))
		for i, h := range header {
			if row[i] == "" {
				r[h] = nil
				continue
			}
			r[h] = row[i]
		}
		s.Rows = append(s.Rows, r)
	}
	return s
}
