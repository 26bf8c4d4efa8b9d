// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// It adapts the generic metrics.Backend interface to Prometheus by mapping
// the service's metric names onto client_golang collectors and pushing them
// to a Pushgateway instead of exposing a scrape endpoint. All
// Prometheus-specific dependencies stay inside this package so the rest of
// the codebase can swap backends without changes.
package prompush

import (
	"fmt"

	"companydb/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	opCounter  *prometheus.CounterVec // "ddl_operations_total"
	opDuration *prometheus.SummaryVec // "ddl_operation_duration_seconds"

	verdictCounter *prometheus.CounterVec // "validation_verdicts_total"
	importCounter  *prometheus.CounterVec // "imports_total"
	rowCounter     prometheus.Counter     // "imported_rows_total"
}

// NewBackend constructs a Prometheus Pushgateway backend. jobName is the
// Pushgateway "job" grouping key; gatewayURL is the base URL of the gateway.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "companydb"
	}

	reg := prometheus.NewRegistry()

	opCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ddl_operations_total",
			Help: "Total number of DDL operations, partitioned by operation and status.",
		},
		[]string{"operation", "status"},
	)
	opDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "ddl_operation_duration_seconds",
			Help:       "Duration of DDL operations in seconds, partitioned by operation and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"operation", "status"},
	)
	verdictCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_verdicts_total",
			Help: "Validation outcomes per spec kind.",
		},
		[]string{"kind", "outcome"},
	)
	importCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imports_total",
			Help: "Finished file imports per status.",
		},
		[]string{"status"},
	)
	rowCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "imported_rows_total",
			Help: "Total rows recorded across successful imports.",
		},
	)

	for _, c := range []prometheus.Collector{opCounter, opDuration, verdictCounter, importCounter, rowCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register: %w", err)
		}
	}

	return &Backend{
		gatewayURL:     gatewayURL,
		jobName:        jobName,
		reg:            reg,
		opCounter:      opCounter,
		opDuration:     opDuration,
		verdictCounter: verdictCounter,
		importCounter:  importCounter,
		rowCounter:     rowCounter,
	}, nil
}

// IncCounter maps the generic counter names onto the registered collectors.
// Unknown names are ignored rather than treated as errors.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "ddl_operations_total":
		b.opCounter.WithLabelValues(labels["operation"], labels["status"]).Add(delta)
	case "validation_verdicts_total":
		b.verdictCounter.WithLabelValues(labels["kind"], labels["outcome"]).Add(delta)
	case "imports_total":
		b.importCounter.WithLabelValues(labels["status"]).Add(delta)
	case "imported_rows_total":
		b.rowCounter.Add(delta)
	}
}

// ObserveHistogram records durations; only the operation summary is mapped.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name == "ddl_operation_duration_seconds" {
		b.opDuration.WithLabelValues(labels["operation"], labels["status"]).Observe(value)
	}
}

// Flush pushes the registry to the Pushgateway.
func (b *Backend) Flush() error {
	if err := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push: %w", err)
	}
	return nil
}
