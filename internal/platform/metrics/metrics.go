// Package metrics holds the HTTP transport metrics shared across handlers.
// Module-specific metrics live next to their modules; this package only
// covers the concerns every route has in common.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	requestsInFlight  prometheus.Gauge
	requestsByChannel *prometheus.CounterVec
	authFailures      prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "decisio_http_requests_total",
			Help: "Total number of HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "decisio_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		requestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "decisio_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),
		requestsByChannel: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "decisio_http_requests_by_channel_total",
			Help: "Total number of HTTP requests by client channel.",
		}, []string{"channel"}),
		authFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "decisio_auth_failures_total",
			Help: "Total number of rejected authentication attempts.",
		}),
	}
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) IncRequestsInFlight() {
	m.requestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.requestsInFlight.Dec()
}

// IncrementChannel counts a request attributed to a client channel.
func (m *Metrics) IncrementChannel(channel string) {
	m.requestsByChannel.WithLabelValues(channel).Inc()
}

func (m *Metrics) IncrementAuthFailures() {
	m.authFailures.Inc()
}
