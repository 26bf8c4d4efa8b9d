// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the DDL service.
//
// The package is intentionally minimal:
//
//   - It exposes a narrow interface (Backend) focused on counters and timing
//     data.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured.
//   - Concrete metric systems live in subpackages (see prompush); the rest of
//     the codebase depends only on this interface.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordOperation measures one DDL operation (create_table, drop_table,
// create_schema, drop_schema): latency plus a success/failure counter.
func RecordOperation(op string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"operation": op,
		"status":    status,
	}

	backend.IncCounter("ddl_operations_total", 1, lbls)
	backend.ObserveHistogram("ddl_operation_duration_seconds", d.Seconds(), lbls)
}

// RecordVerdict counts validation outcomes per spec kind ("table", "schema")
// so dashboards can show how often users submit invalid descriptions.
func RecordVerdict(kind string, valid bool) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	backend.IncCounter("validation_verdicts_total", 1, Labels{
		"kind":    kind,
		"outcome": outcome,
	})
}

// RecordImport counts finished file imports per status ("ok", "failed").
func RecordImport(status string, rows int64) {
	backend.IncCounter("imports_total", 1, Labels{"status": status})
	if rows > 0 {
		backend.IncCounter("imported_rows_total", float64(rows), nil)
	}
}
