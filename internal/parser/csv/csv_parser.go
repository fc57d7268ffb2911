// Package csv implements the CSV input parser. The whole input is read into
// memory; inputs are bounded batch extracts.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"go.uber.org/zap"

	"salesetl/internal/parser"
	"salesetl/internal/records"
)

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// LazyQuotes relaxes quote handling (csv.Reader.LazyQuotes).
	LazyQuotes bool

	// HeaderMap maps source header names to canonical keys.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct {
	opt Options
	log *zap.Logger
}

var _ parser.Parser = (*Parser)(nil)

// NewParser constructs a Parser with the provided Options. A nil logger
// disables the skipped-row log lines.
func NewParser(opt Options, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{opt: opt, log: log}
}

// logLimit caps the per-row skip messages of a single input.
const logLimit = 400

// Parse consumes all CSV records from r. The first row is the header. Rows
// that fail to parse or whose width differs from the header are skipped and
// counted. Cells are trimmed and blank cells become nil.
func (p *Parser) Parse(r io.Reader) (records.Set, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = p.opt.LazyQuotes
	// Width is enforced after reading rows.
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err != nil {
		return records.Set{}, 0, fmt.Errorf("read csv header: %w", err)
	}
	headers := parser.NormalizeHeaders(h, p.opt.HeaderMap)

	set := records.Set{Columns: headers}
	skipped := 0
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < logLimit {
				p.log.Warn("csv: skipping row", zap.Int("line", line), zap.Error(err))
			}
			skipped++
			continue
		}
		if len(row) != len(headers) {
			if skipped < logLimit {
				p.log.Warn("csv: skipping row: incorrect number of fields",
					zap.Int("line", line), zap.Int("expected", len(headers)), zap.Int("got", len(row)))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			rec[parser.KeyFor(i, headers)] = parser.EmptyToNil(val)
		}
		set.Rows = append(set.Rows, rec)
	}
	return set, skipped, nil
}
