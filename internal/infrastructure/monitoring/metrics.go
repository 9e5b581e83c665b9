package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the client.
// All methods are no-ops on a nil *Metrics.
type Metrics struct {
	// Operation metrics
	Calls        *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec
	CallErrors   *prometheus.CounterVec

	// Wire metrics
	WireBytes *prometheus.HistogramVec

	// Breaker metrics
	BreakerState       *prometheus.GaugeVec
	BreakerTransitions *prometheus.CounterVec

	// In-flight calls
	InFlight prometheus.Gauge
}

// NewMetrics registers the client collectors on reg. A nil reg gets a
// private registry so repeated construction never panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudbrowser_calls_total",
				Help: "Total number of remote operations by outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		CallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cloudbrowser_call_duration_seconds",
				Help:    "Remote operation duration in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"endpoint"},
		),
		CallErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudbrowser_call_errors_total",
				Help: "Total number of failed remote operations by error kind",
			},
			[]string{"endpoint", "kind"},
		),
		WireBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cloudbrowser_wire_bytes",
				Help:    "Bytes on the wire per request or response body",
				Buckets: []float64{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576},
			},
			[]string{"direction", "encoding"},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cloudbrowser_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"breaker"},
		),
		BreakerTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudbrowser_breaker_transitions_total",
				Help: "Circuit breaker state transitions",
			},
			[]string{"breaker", "from", "to"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cloudbrowser_calls_in_flight",
				Help: "Remote operations currently waiting on the transport",
			},
		),
	}
}

// RecordCall records a finished operation.
func (m *Metrics) RecordCall(endpoint, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.Calls.WithLabelValues(endpoint, outcome).Inc()
	m.CallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordError records a failed operation by error kind.
func (m *Metrics) RecordError(endpoint, kind string) {
	if m == nil {
		return
	}
	m.CallErrors.WithLabelValues(endpoint, kind).Inc()
}

// RecordWire records the size of a body as it travelled on the wire.
func (m *Metrics) RecordWire(direction, encoding string, size int) {
	if m == nil {
		return
	}
	m.WireBytes.WithLabelValues(direction, encoding).Observe(float64(size))
}

// RecordBreaker records a breaker transition. States are passed as their
// numeric value and name so this package does not depend on resilience.
func (m *Metrics) RecordBreaker(name string, to int, from, toName string) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(float64(to))
	m.BreakerTransitions.WithLabelValues(name, from, toName).Inc()
}

// Track marks one call in flight and returns the func that ends it.
func (m *Metrics) Track() func() {
	if m == nil {
		return func() {}
	}
	m.InFlight.Inc()
	return m.InFlight.Dec
}

// Timer measures an operation.
type Timer struct {
	start    time.Time
	metrics  *Metrics
	endpoint string
}

// NewTimer starts a timer for endpoint.
func NewTimer(metrics *Metrics, endpoint string) *Timer {
	return &Timer{
		start:    time.Now(),
		metrics:  metrics,
		endpoint: endpoint,
	}
}

// Stop records the elapsed time under outcome and returns it.
func (t *Timer) Stop(outcome string) time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.RecordCall(t.endpoint, outcome, elapsed)
	return elapsed
}
