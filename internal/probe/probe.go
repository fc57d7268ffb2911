// Package probe inspects the raw inputs of a job without transforming or
// loading anything: does each header carry what the transforms need, and how
// many required values are blank?
package probe

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"salesetl/internal/extract"
	"salesetl/internal/records"
	"salesetl/internal/transformer"
)

// Result describes one input.
type Result struct {
	Input   string
	Columns []string
	Rows    int
	Skipped int

	// Missing lists required columns absent from the header.
	Missing []string

	// Blank counts rows without a value, per required column present.
	Blank map[string]int
}

// OK reports whether the input can be transformed.
func (r Result) OK() bool { return len(r.Missing) == 0 }

// Inspect summarizes one parsed input. set.Name selects the required columns.
func Inspect(set records.Set, skipped int) Result {
	res := Result{
		Input:   set.Name,
		Columns: set.Columns,
		Rows:    len(set.Rows),
		Skipped: skipped,
		Blank:   map[string]int{},
	}

	required := transformer.RequiredColumns(set.Name)
	if set.Name == extract.Sales {
		if col, ok := firstPresent(set, transformer.DateColumns()); ok {
			required = append(required, col)
		} else {
			res.Missing = append(res.Missing, strings.Join(transformer.DateColumns(), "|"))
		}
	}

	for _, col := range required {
		if !set.HasColumn(col) {
			res.Missing = append(res.Missing, col)
			continue
		}
		n := 0
		for _, r := range set.Rows {
			if !r.Present(col) {
				n++
			}
		}
		res.Blank[col] = n
	}
	return res
}

func firstPresent(set records.Set, cols []string) (string, bool) {
	for _, c := range cols {
		if set.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

// Run extracts the batch from p and inspects each input.
func Run(ctx context.Context, p extract.Provider) ([]Result, error) {
	b, err := p.Extract(ctx)
	if err != nil {
		return nil, err
	}
	return []Result{
		Inspect(b.Customers, b.ParseErrors[extract.Customers]),
		Inspect(b.Products, b.ParseErrors[extract.Products]),
		Inspect(b.Sales, b.ParseErrors[extract.Sales]),
	}, nil
}

// Render writes results as a table followed by the header of each input.
func Render(w io.Writer, results []Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Input", "Rows", "Skipped", "Missing columns", "Blank required values"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range results {
		missing := "-"
		if len(r.Missing) > 0 {
			missing = strings.Join(r.Missing, ", ")
		}
		table.Append([]string{
			r.Input,
			strconv.Itoa(r.Rows),
			strconv.Itoa(r.Skipped),
			missing,
			formatBlank(r.Blank),
		})
	}
	table.Render()

	for _, r := range results {
		fmt.Fprintf(w, "%s: %s\n", r.Input, strings.Join(r.Columns, ", "))
	}
}

func formatBlank(m map[string]int) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.Itoa(m[k])
	}
	return strings.Join(parts, " ")
}
