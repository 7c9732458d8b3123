package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/spherical-ai/hoidap/internal/dispatch"
)

// Metrics records answered questions.
type Metrics struct {
	responses *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewMetrics registers the question metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		responses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hoidap",
			Name:      "responses_total",
			Help:      "Answered questions by response kind and routed intent.",
		}, []string{"kind", "intent"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hoidap",
			Name:      "dispatch_duration_seconds",
			Help:      "Time to answer one question.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 20},
		}, []string{"intent"}),
	}
}

// Observe records one response.
func (m *Metrics) Observe(resp dispatch.Response, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(string(resp.Kind), string(resp.Intent)).Inc()
	m.latency.WithLabelValues(string(resp.Intent)).Observe(elapsed.Seconds())
}
