// Package metric provides Prometheus metrics for Samus.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "samus"

// Command results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Connection error stages.
const (
	StageAccept = "accept"
	StageRead   = "read"
	StageWrite  = "write"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Request metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Connection metrics
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter
	ConnectionErrors  *prometheus.CounterVec
}

// NewRegistry creates a registry with all Samus metrics plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands processed, by action and result.",
		}, []string{"action", "result"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent executing a command against the store.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"action"}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Client connections currently being served.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Client connections accepted.",
		}),
		ConnectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_errors_total",
			Help:      "Connection I/O errors, by stage.",
		}, []string{"stage"}),
	}

	r.reg.MustRegister(
		r.CommandsTotal,
		r.CommandDuration,
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.ConnectionErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// RegisterKeyCount exposes the store size as samus_store_keys.
func (r *Registry) RegisterKeyCount(count func() int) {
	r.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_keys",
		Help:      "Number of keys currently in the store.",
	}, func() float64 {
		return float64(count())
	}))
}

// ObserveCommand records one executed command.
func (r *Registry) ObserveCommand(action string, seconds float64, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	r.CommandsTotal.WithLabelValues(action, result).Inc()
	r.CommandDuration.WithLabelValues(action).Observe(seconds)
}

// Gatherer returns the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
