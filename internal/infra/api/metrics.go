package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIクライアントのメトリクス。nilなら何もしない
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	refreshes *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pedidos",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Requests sent to the remote API by method and status.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pedidos",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests sent to the remote API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pedidos",
			Subsystem: "api",
			Name:      "token_refresh_total",
			Help:      "Access token refresh attempts by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.requests, m.duration, m.refreshes)
	return m
}

func (m *Metrics) observe(method string, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, status).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) refresh(result string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
}
