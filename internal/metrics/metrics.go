package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the simulator's Prometheus collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	// Requests by surface (http, grpc), analysis kind and outcome
	Requests *prometheus.CounterVec
	// End-to-end analysis latency
	RequestDuration *prometheus.HistogramVec

	// Per-scenario projector metrics
	ScenarioTrials   *prometheus.CounterVec
	ScenarioDuration *prometheus.HistogramVec

	// Profile cache invalidations from the file watcher
	ProfileReloads prometheus.Counter
}

// New registers all collectors on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roic_requests_total",
				Help: "Analysis requests handled",
			},
			[]string{"surface", "kind", "status"}, // status: ok, invalid, error
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roic_request_duration_seconds",
				Help:    "Analysis request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"surface", "kind"},
		),

		ScenarioTrials: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roic_projection_trials_total",
				Help: "Monte Carlo trials run per removal scenario",
			},
			[]string{"removal"},
		),
		ScenarioDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roic_projection_scenario_duration_seconds",
				Help:    "Time to simulate one removal scenario",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"removal"},
		),

		ProfileReloads: f.NewCounter(prometheus.CounterOpts{
			Name: "roic_profile_reloads_total",
			Help: "Profile cache invalidations triggered by file changes",
		}),
	}
}

// ScenarioDone records one finished removal scenario.
func (m *Metrics) ScenarioDone(removal float64, trials int, elapsed time.Duration) {
	label := strconv.FormatFloat(removal, 'f', -1, 64)
	m.ScenarioTrials.WithLabelValues(label).Add(float64(trials))
	m.ScenarioDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// Observe records one request outcome.
func (m *Metrics) Observe(surface, kind, status string, elapsed time.Duration) {
	m.Requests.WithLabelValues(surface, kind, status).Inc()
	m.RequestDuration.WithLabelValues(surface, kind).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
