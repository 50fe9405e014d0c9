// Package metrics exposes Prometheus collectors for HTTP traffic, logins,
// uploads and ratings.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors registered for one server instance.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	loginFailures prometheus.Counter
	uploads       prometheus.Counter
	ratings       *prometheus.CounterVec
}

// New registers the collectors on reg. A nil registerer yields a no-op Metrics.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "login_failures_total",
			Help: "Rejected login attempts.",
		}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Media files stored.",
		}),
		ratings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratings_total",
			Help: "Ratings written, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.loginFailures, m.uploads, m.ratings)
	return m
}

// ObserveRequest records one served request. An empty route means no route matched.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) IncLoginFailure() {
	if m == nil {
		return
	}
	m.loginFailures.Inc()
}

func (m *Metrics) IncUpload() {
	if m == nil {
		return
	}
	m.uploads.Inc()
}

// IncRating counts a rating write; created is false when an existing rating was replaced.
func (m *Metrics) IncRating(created bool) {
	if m == nil {
		return
	}
	outcome := "updated"
	if created {
		outcome = "created"
	}
	m.ratings.WithLabelValues(outcome).Inc()
}
