package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects and exposes operational metrics for the pantry workflow.
type Metrics struct {
	registry *prometheus.Registry

	actions        *prometheus.CounterVec
	recipeDuration prometheus.Histogram
	inventorySize  prometheus.Gauge
	startTime      time.Time
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
	}

	m.actions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantry_actions_total",
			Help: "Workflow actions by type and outcome",
		},
		[]string{"action", "outcome"},
	)

	m.recipeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pantry_recipe_request_duration_seconds",
			Help:    "Time taken by upstream recipe generation requests",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
	)

	m.inventorySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pantry_inventory_items",
			Help: "Number of items in the last loaded inventory snapshot",
		},
	)

	uptime := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "pantry_uptime_seconds",
			Help: "Seconds since process start",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	m.registry.MustRegister(m.actions, m.recipeDuration, m.inventorySize, uptime)
	return m
}

// RecordAction counts one workflow action with its outcome
// ("ok", "rejected" or "error").
func (m *Metrics) RecordAction(action, outcome string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, outcome).Inc()
}

// ObserveRecipeDuration records the latency of one recipe request.
func (m *Metrics) ObserveRecipeDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.recipeDuration.Observe(d.Seconds())
}

// SetInventorySize records the size of the current inventory snapshot.
func (m *Metrics) SetInventorySize(n int) {
	if m == nil {
		return
	}
	m.inventorySize.Set(float64(n))
}

// Handler returns the HTTP handler serving this collector's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
