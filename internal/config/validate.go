package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "sources.sales.path"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource("sources.customers", p.Sources.Customers)...)
	issues = append(issues, validateSource("sources.products", p.Sources.Products)...)
	issues = append(issues, validateSource("sources.sales", p.Sources.Sales)...)
	issues = append(issues, validateTransform(p.Transform)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateReport(p.Report)...)
	issues = append(issues, validateLock(p.Lock)...)
	issues = append(issues, validateMetrics(p.Metrics)...)

	return issues
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// SourceFormat resolves the parser format of s: the explicit Format, else
// "xlsx" for .xlsx/.xlsm names, else "csv".
func SourceFormat(s Source) string {
	if f := strings.ToLower(strings.TrimSpace(s.Format)); f != "" {
		return f
	}
	name := s.Path
	switch s.Kind {
	case "s3":
		name = s.Key
	case "http":
		name = s.URL
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	}
	return "csv"
}

// validateSource validates one input source.
func validateSource(path string, s Source) []Issue {
	var issues []Issue

	switch s.Kind {
	case "", "file":
		if strings.TrimSpace(s.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".path",
				Message:  "file source requires a non-empty path",
			})
		}
	case "s3":
		if strings.TrimSpace(s.Bucket) == "" || strings.TrimSpace(s.Key) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  "s3 source requires bucket and key",
			})
		}
	case "http":
		if !strings.HasPrefix(s.URL, "http://") && !strings.HasPrefix(s.URL, "https://") {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".url",
				Message:  fmt.Sprintf("http source requires an http(s) url, got %q", s.URL),
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  fmt.Sprintf("unknown source kind %q; expected file, s3 or http", s.Kind),
		})
	}

	switch SourceFormat(s) {
	case "csv":
		if c := s.Options.String("comma", ""); len([]rune(c)) > 1 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".options.comma",
				Message:  fmt.Sprintf("comma must be a single character, got %q", c),
			})
		}
	case "xlsx":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".format",
			Message:  fmt.Sprintf("unknown format %q; expected csv or xlsx", s.Format),
		})
	}

	return issues
}

// validateTransform checks the sales dedupe keys against the known sales
// columns.
func validateTransform(t Transform) []Issue {
	var issues []Issue

	known := map[string]struct{}{
		"transaction_id": {}, "customer_id": {}, "product_id": {},
		"transaction_date": {}, "order_date": {}, "quantity": {},
		"unit_price": {}, "status": {},
	}
	hasTxn := len(t.Sales.DedupeKeys) == 0
	for i, k := range t.Sales.DedupeKeys {
		if _, ok := known[k]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("transform.sales.dedupe_keys[%d]", i),
				Message:  fmt.Sprintf("unknown sales column %q", k),
			})
		}
		if k == "transaction_id" {
			hasTxn = true
		}
	}
	if !hasTxn {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "transform.sales.dedupe_keys",
			Message:  "dedupe_keys omit transaction_id; lines of different transactions may be collapsed",
		})
	}

	return issues
}

// validateStorage validates storage configuration.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
		return issues
	}

	known := map[string]struct{}{
		"postgres":  {},
		"mysql":     {},
		"mssql":     {},
		"sqlite":    {},
		"snowflake": {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  "storage.dsn must not be empty (or set DB_HOST/DB_NAME for mysql)",
		})
	}
	if s.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.batch_size",
			Message:  "batch_size must not be negative",
		})
	}

	return issues
}

// validateReport validates the report sink.
func validateReport(r Report) []Issue {
	var issues []Issue

	switch r.Kind {
	case "", "file":
		if strings.TrimSpace(r.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "report.path",
				Message:  "file report requires a non-empty path",
			})
		}
	case "stdout":
	case "s3":
		if strings.TrimSpace(r.Bucket) == "" || strings.TrimSpace(r.Key) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "report",
				Message:  "s3 report requires bucket and key",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "report.kind",
			Message:  fmt.Sprintf("unknown report kind %q; expected file, stdout or s3", r.Kind),
		})
	}

	switch r.Format {
	case "", "text", "table":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "report.format",
			Message:  fmt.Sprintf("unknown report format %q; expected text or table", r.Format),
		})
	}

	return issues
}

// validateLock validates the run lock settings.
func validateLock(l Lock) []Issue {
	if l.RedisAddr == "" {
		return nil
	}
	var issues []Issue
	if l.TTL <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "lock.ttl",
			Message:  "lock.ttl must be positive when lock.redis_addr is set",
		})
	}
	if strings.TrimSpace(l.Key) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "lock.key",
			Message:  "lock.key must not be empty when lock.redis_addr is set",
		})
	}
	return issues
}

// validateMetrics validates the metrics backend selection.
func validateMetrics(m Metrics) []Issue {
	switch m.Backend {
	case "", "none", "pushgateway":
		return nil
	case "datadog":
		if m.StatsdAddr != "" {
			return nil
		}
		return []Issue{{
			Severity: SeverityWarning,
			Path:     "metrics.statsd_addr",
			Message:  "datadog backend without statsd_addr; metrics will be disabled",
		}}
	}
	return []Issue{{
		Severity: SeverityWarning,
		Path:     "metrics.backend",
		Message:  fmt.Sprintf("unknown metrics backend %q; metrics will be disabled", m.Backend),
	}}
}
