// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SessionTransitions counts edit session transitions by kind and outcome.
	SessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_session_transitions_total",
		Help: "Edit session transitions by kind and outcome",
	}, []string{"transition", "status"})

	// PersistFailures counts writes that were kept in memory only.
	PersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_persist_failures_total",
		Help: "Content writes that could not be persisted",
	}, []string{"collection"})

	// MalformedData counts persisted values that failed to decode.
	MalformedData = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_malformed_data_total",
		Help: "Persisted values replaced by defaults after a decode failure",
	}, []string{"collection"})

	// Imports counts bundle imports by source and outcome.
	Imports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_imports_total",
		Help: "Bundle imports by source and outcome",
	}, []string{"source", "status"})

	// EditMode is 1 while an edit session is active.
	EditMode = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folio_edit_mode",
		Help: "1 while an edit session is active",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
