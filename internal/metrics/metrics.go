// Package metrics collects Prometheus statement metrics from execution
// sessions. A Recorder is an exec.Listener; attach it to sessions and
// export its registry with WriteTextfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leapstack-labs/leapdb/pkg/exec"
)

// Namespace prefixes every metric name.
const Namespace = "leapdb"

// Default histogram buckets for statement duration (in milliseconds)
var defaultBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// Statement outcome label values.
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// Recorder wraps the prometheus collectors for statement executions.
type Recorder struct {
	registry *prometheus.Registry

	statementsTotal   *prometheus.CounterVec
	rowsAffectedTotal *prometheus.CounterVec
	batchEntriesTotal *prometheus.CounterVec

	statementDuration *prometheus.HistogramVec
}

// NewRecorder creates a recorder with its own registry. Nil buckets select
// the defaults.
func NewRecorder(buckets []float64) *Recorder {
	if len(buckets) == 0 {
		buckets = defaultBuckets
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),

		statementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "statements_total",
				Help:      "Total number of statement round trips",
			},
			[]string{"dialect", "kind", "status"},
		),

		rowsAffectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "rows_affected_total",
				Help:      "Total rows reported by update counts",
			},
			[]string{"dialect"},
		),

		batchEntriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "batch_entries_total",
				Help:      "Total number of entries submitted in batches",
			},
			[]string{"dialect"},
		),

		statementDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "statement_duration_milliseconds",
				Help:      "Duration of statement round trips in milliseconds",
				Buckets:   buckets,
			},
			[]string{"dialect", "kind"},
		),
	}

	r.registry.MustRegister(
		r.statementsTotal,
		r.rowsAffectedTotal,
		r.batchEntriesTotal,
		r.statementDuration,
	)
	return r
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// StatementExecuted implements exec.Listener.
func (r *Recorder) StatementExecuted(ev exec.Event) {
	kind := string(ev.Kind)
	status := StatusOK
	switch {
	case ev.Cancelled:
		status = StatusCancelled
	case ev.Err != nil:
		status = StatusError
	}

	r.statementsTotal.WithLabelValues(ev.Dialect, kind, status).Inc()
	r.statementDuration.WithLabelValues(ev.Dialect, kind).
		Observe(float64(ev.Duration.Microseconds()) / 1000)

	if ev.UpdateCount > 0 {
		r.rowsAffectedTotal.WithLabelValues(ev.Dialect).Add(float64(ev.UpdateCount))
	}
	if ev.Kind == exec.EventBatch && ev.BatchSize > 0 {
		r.batchEntriesTotal.WithLabelValues(ev.Dialect).Add(float64(ev.BatchSize))
	}
}

// WriteTextfile writes the registry in the Prometheus text format, for
// pickup by the node exporter textfile collector. The file is replaced
// atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

var _ exec.Listener = (*Recorder)(nil)
