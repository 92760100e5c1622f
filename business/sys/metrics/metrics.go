// Package metrics constructs the metrics the application will track.
package metrics

import (
	"expvar"
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// expvars are published once per process under /debug/vars.
var expvars = struct {
	goroutines *expvar.Int
	requests   *expvar.Int
	errors     *expvar.Int
	panics     *expvar.Int
}{
	goroutines: expvar.NewInt("goroutines"),
	requests:   expvar.NewInt("requests"),
	errors:     expvar.NewInt("errors"),
	panics:     expvar.NewInt("panics"),
}

// Metrics holds the counters exported to Prometheus. Each value owns its
// registry so several can live in one process.
type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	errors     prometheus.Counter
	panics     prometheus.Counter
	authorized prometheus.Counter
	rejected   *prometheus.CounterVec
	supply     prometheus.Gauge
}

// New constructs the set of metrics for the oracle.
func New(namespace string) *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Number of requests handled by route.",
		}, []string{"route"}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Number of requests that returned an error.",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_total",
			Help:      "Number of panics recovered.",
		}),
		authorized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_authorized_total",
			Help:      "Number of key purchases authorized.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_rejected_total",
			Help:      "Number of key purchases rejected by reason.",
		}, []string{"reason"}),
		supply: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "supply",
			Help:      "Number of keys issued so far.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requests,
		m.errors,
		m.panics,
		m.authorized,
		m.rejected,
		m.supply,
	)

	return &m
}

// Handler returns the http handler serving the Prometheus registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// AddRequest increments the request count for the route.
func (m *Metrics) AddRequest(route string) {
	expvars.requests.Add(1)
	if n := expvars.requests.Value(); n%100 == 0 {
		expvars.goroutines.Set(int64(runtime.NumGoroutine()))
	}

	m.requests.WithLabelValues(route).Inc()
}

// AddError increments the error count.
func (m *Metrics) AddError() {
	expvars.errors.Add(1)
	m.errors.Inc()
}

// AddPanic increments the panic count.
func (m *Metrics) AddPanic() {
	expvars.panics.Add(1)
	m.panics.Inc()
}

// AddAuthorized records an authorized purchase and the resulting supply.
func (m *Metrics) AddAuthorized(supply uint64) {
	m.authorized.Inc()
	m.supply.Set(float64(supply))
}

// AddRejected records a rejected purchase.
func (m *Metrics) AddRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

// SetSupply records the current supply.
func (m *Metrics) SetSupply(supply uint64) {
	m.supply.Set(float64(supply))
}
