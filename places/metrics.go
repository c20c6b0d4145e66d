package places

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for searches, upstream calls
// and live sessions. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	Searches         *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	Sessions         prometheus.Gauge
}

// NewMetrics registers the collectors against reg, defaulting to the global
// registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	searches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "localscope_searches_total",
		Help: "Searches handled by the controller, labeled by outcome.",
	}, []string{"outcome"})
	if err := reg.Register(searches); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("collector localscope_searches_total already registered with incompatible type")
		}
		searches = existing
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "localscope_upstream_request_duration_seconds",
		Help:    "Places endpoint latency in seconds, labeled by status code.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
	}, []string{"code"})
	if err := reg.Register(durations); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil, fmt.Errorf("collector localscope_upstream_request_duration_seconds already registered with incompatible type")
		}
		durations = existing
	}

	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "localscope_sessions_active",
		Help: "Visitor sessions currently held in memory.",
	})
	if err := reg.Register(sessions); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(prometheus.Gauge)
		if !ok {
			return nil, fmt.Errorf("collector localscope_sessions_active already registered with incompatible type")
		}
		sessions = existing
	}

	return &Metrics{
		gatherer:         gatherer,
		Searches:         searches,
		UpstreamDuration: durations,
		Sessions:         sessions,
	}, nil
}

// Handler exposes the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if m != nil && m.gatherer != nil {
		gatherer = m.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) search(outcome string) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) upstream(code string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(code).Observe(d.Seconds())
}

func (m *Metrics) setSessions(n int) {
	if m == nil {
		return
	}
	m.Sessions.Set(float64(n))
}
