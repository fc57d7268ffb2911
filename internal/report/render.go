// Package report renders a quality.Report and writes it to a sink.
//
// Two formats are supported:
//   - "text":  the fixed-width layout of the legacy data_quality_report.txt
//   - "table": the same figures as ASCII tables (tablewriter)
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"salesetl/internal/quality"
)

// Formats.
const (
	FormatText  = "text"
	FormatTable = "table"
)

const ruleWidth = 70

type line struct {
	label string
	value string
}

type section struct {
	title string
	lines []line
}

func num(n int) string { return fmt.Sprintf("%d", n) }

// sections lays out the per-table figures in report order.
func sections(r quality.Report) []section {
	return []section{
		{"CUSTOMERS DATA", []line{
			{"Records processed:", num(r.Customers.Original)},
			{"Duplicates removed:", num(r.Customers.Duplicates)},
			{"Missing emails handled:", num(r.Customers.MissingEmails)},
			{"Records loaded successfully:", num(r.Customers.Final)},
		}},
		{"PRODUCTS DATA", []line{
			{"Records processed:", num(r.Products.Original)},
			{"Duplicates removed:", num(r.Products.Duplicates)},
			{"Missing prices handled:", num(r.Products.MissingPrices)},
			{"Missing stock values handled:", num(r.Products.MissingStock)},
			{"Records loaded successfully:", num(r.Products.Final)},
		}},
		{"SALES/ORDERS DATA", []line{
			{"Records processed:", num(r.Sales.Original)},
			{"Duplicates removed:", num(r.Sales.Duplicates)},
			{"Missing customer IDs handled:", num(r.Sales.MissingCustomerIDs)},
			{"Missing product IDs handled:", num(r.Sales.MissingProductIDs)},
			{"Missing dates handled:", num(r.Sales.MissingDates)},
			{"Orders filtered (invalid refs):", num(r.Reconcile.OrdersFiltered)},
			{"Order items filtered (invalid):", num(r.Reconcile.OrderItemsFiltered)},
			{"Orders loaded successfully:", num(r.Reconcile.OrdersFinal)},
			{"Order items loaded successfully:", num(r.Reconcile.OrderItemsFinal)},
		}},
		{"RUN DETAILS", runLines(r)},
	}
}

func runLines(r quality.Report) []line {
	lines := []line{
		{"Run ID:", r.RunID},
		{"Customer rows without ID:", num(r.Customers.MissingIDs)},
		{"Product rows without ID:", num(r.Products.MissingIDs)},
		{"Sales rows without transaction:", num(r.Sales.MissingTransactionIDs)},
		{"Sales rows dropped:", num(r.Sales.Dropped)},
		{"Malformed source rows skipped:", num(r.TotalParseErrors())},
		{"Load status:", loadStatus(r.Load)},
	}
	for _, name := range sortedKeys(r.Fingerprints) {
		lines = append(lines, line{"Fingerprint " + name + ":", r.Fingerprints[name]})
	}
	return lines
}

func loadStatus(s *quality.LoadStatus) string {
	switch {
	case s == nil:
		return "not run"
	case s.OK:
		return "OK"
	case s.Table != "":
		return fmt.Sprintf("FAILED at %s: %s", s.Table, s.Error)
	default:
		return "FAILED: " + s.Error
	}
}

func summaryLines(r quality.Report) []line {
	s := r.Summary()
	return []line{
		{"Total records processed:", num(s.Processed)},
		{"Total records loaded to DB:", num(s.Loaded)},
		{"Data quality issues resolved:", num(s.IssuesResolved)},
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func title(r quality.Report) string {
	job := strings.ToUpper(strings.TrimSpace(r.Job))
	if job == "" {
		return "DATA QUALITY REPORT"
	}
	return "DATA QUALITY REPORT - " + job + " ETL PIPELINE"
}

// Render formats r. An empty format means FormatText.
func Render(r quality.Report, format string) (string, error) {
	switch format {
	case "", FormatText:
		return renderText(r), nil
	case FormatTable:
		return renderTable(r), nil
	default:
		return "", fmt.Errorf("report: unknown format %q", format)
	}
}

func renderText(r quality.Report) string {
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	var b strings.Builder
	writeLine := func(l line) { fmt.Fprintf(&b, "%-31s %s\n", l.label, l.value) }

	b.WriteString(heavy + "\n")
	b.WriteString(title(r) + "\n")
	b.WriteString(heavy + "\n")
	fmt.Fprintf(&b, "Report Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	for _, s := range sections(r) {
		b.WriteString(light + "\n")
		b.WriteString(s.title + "\n")
		b.WriteString(light + "\n")
		for _, l := range s.lines {
			writeLine(l)
		}
		b.WriteString("\n")
	}

	b.WriteString(heavy + "\n")
	b.WriteString("SUMMARY\n")
	b.WriteString(heavy + "\n")
	for _, l := range summaryLines(r) {
		writeLine(l)
	}
	b.WriteString(heavy + "\n")
	return b.String()
}

func renderTable(r quality.Report) string {
	var b strings.Builder
	b.WriteString(title(r) + "\n")
	fmt.Fprintf(&b, "Report Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	table := tablewriter.NewWriter(&b)
	table.SetHeader([]string{"Section", "Metric", "Value"})
	table.SetAutoWrapText(false)
	table.SetAutoMergeCells(true)
	table.SetRowLine(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	all := append(sections(r), section{"SUMMARY", summaryLines(r)})
	for _, s := range all {
		for _, l := range s.lines {
			table.Append([]string{s.title, strings.TrimSuffix(l.label, ":"), l.value})
		}
	}
	table.Render()
	return b.String()
}
