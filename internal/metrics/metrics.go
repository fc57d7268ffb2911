// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the batch job.
//
//   - It exposes a narrow interface (Backend) of counters, timings and gauges.
//   - A global, pluggable backend defaults to a no-op implementation, so
//     metrics are always safe to call even when no backend is configured.
//   - Concrete systems live in subpackages (prompush, datadog).
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Metric names.
const (
	StepTotal      = "etl_step_total"
	StepDuration   = "etl_step_duration_seconds"
	RecordsTotal   = "etl_records_total"
	TableRowsTotal = "etl_table_rows_total"
	QualityIssues  = "etl_quality_issues"
)

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// SetGauge sets a point-in-time value.
	SetGauge(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) SetGauge(name string, value float64, labels Labels)         {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Reset restores the no-op backend.
func Reset() {
	backend = nopBackend{}
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency and success/failure of one job step
// (extract, transform, reconcile, load, report).
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow increments a record-level counter for the given job and kind.
//
// Kinds used by the runner:
//   - "processed"
//   - "parse_errors"
//   - "duplicates"
//   - "missing_required"
//   - "ri_filtered"
//   - "loaded"
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordTableRows counts rows written to one destination table.
func RecordTableRows(job, table string, n int64) {
	if n <= 0 {
		return
	}
	backend.IncCounter(TableRowsTotal, float64(n), Labels{
		"job":   job,
		"table": table,
	})
}

// RecordQuality publishes one data-quality figure of the last run, e.g.
// table=customers kind=missing_emails.
func RecordQuality(job, table, kind string, value int) {
	backend.SetGauge(QualityIssues, float64(value), Labels{
		"job":   job,
		"table": table,
		"kind":  kind,
	})
}
