package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "goodgood"

// Metrics holds the file server's Prometheus collectors.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served, by tree and status code",
		}, []string{"tree", "code"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time to serve a request, by tree",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"tree"}),
	}
}

func (m *Metrics) observe(tree string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(tree, strconv.Itoa(code)).Inc()
	m.Duration.WithLabelValues(tree).Observe(elapsed.Seconds())
}
