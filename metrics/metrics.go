// Package metrics exposes Prometheus collectors for indicator pipeline runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec // labels: status=ok|error
	BarsProcessed prometheus.Counter

	IndicatorDuration *prometheus.HistogramVec // labels: indicator
	IndicatorErrors   *prometheus.CounterVec   // labels: indicator
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipengine_runs_total",
			Help: "Pipeline runs by outcome",
		}, []string{"status"}),
		BarsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pipengine_bars_processed_total",
			Help: "Bars fed into pipeline runs",
		}),
		IndicatorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pipengine_indicator_duration_seconds",
			Help:    "Indicator compute latency per run",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"indicator"}),
		IndicatorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipengine_indicator_errors_total",
			Help: "Indicator computations that returned an error",
		}, []string{"indicator"}),
	}

	if reg != nil {
		reg.MustRegister(m.RunsTotal, m.BarsProcessed, m.IndicatorDuration, m.IndicatorErrors)
	}
	return m
}

// ObserveIndicator records one indicator computation.
func (m *Metrics) ObserveIndicator(name string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.IndicatorDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.IndicatorErrors.WithLabelValues(name).Inc()
	}
}

// ObserveRun records the outcome of a pipeline run over bars bars.
func (m *Metrics) ObserveRun(bars int, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.BarsProcessed.Add(float64(bars))
}
