// Package xlsx parses the first (or a named) worksheet of an Excel workbook
// into a record set using excelize.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"salesetl/internal/parser"
	"salesetl/internal/records"
)

// Options configures the XLSX parser.
type Options struct {
	// Sheet names the worksheet to read. Empty means the first sheet.
	Sheet string

	// HeaderMap maps source header names to canonical keys.
	HeaderMap map[string]string
}

// Parser reads a workbook whose first row is the header.
type Parser struct {
	opt Options
	log *zap.Logger
}

var _ parser.Parser = (*Parser)(nil)

// NewParser constructs a Parser. A nil logger discards log output.
func NewParser(opt Options, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{opt: opt, log: log}
}

// Parse reads every row of the sheet. excelize drops trailing empty cells, so
// short rows are padded with nil; rows wider than the header are skipped and
// counted. Fully blank rows are ignored.
func (p *Parser) Parse(r io.Reader) (records.Set, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return records.Set{}, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := p.opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return records.Set{}, 0, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return records.Set{}, 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return records.Set{}, 0, fmt.Errorf("read sheet %q: missing header row", sheet)
	}

	headers := parser.NormalizeHeaders(rows[0], p.opt.HeaderMap)
	set := records.Set{Columns: headers}
	skipped := 0
	for i, row := range rows[1:] {
		if len(row) > len(headers) {
			p.log.Warn("xlsx: skipping row: incorrect number of fields",
				zap.String("sheet", sheet), zap.Int("row", i+2),
				zap.Int("expected", len(headers)), zap.Int("got", len(row)))
			skipped++
			continue
		}
		rec := make(records.Record, len(headers))
		blank := true
		for j := range headers {
			var v any
			if j < len(row) {
				v = parser.EmptyToNil(row[j])
			}
			if v != nil {
				blank = false
			}
			rec[parser.KeyFor(j, headers)] = v
		}
		if blank {
			continue
		}
		set.Rows = append(set.Rows, rec)
	}
	return set, skipped, nil
}
