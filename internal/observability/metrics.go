package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	adminRequestsTotal      *prometheus.CounterVec
	adminLatencySeconds     *prometheus.HistogramVec
	adminErrorsTotal        *prometheus.CounterVec
	contactSubmissionsTotal *prometheus.CounterVec
	waitingListSignupsTotal *prometheus.CounterVec
	loginAttemptsTotal      *prometheus.CounterVec
	newsCacheRequestsTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		contactSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions by outcome.",
		}, []string{"outcome"})

		waitingListSignupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waiting_list_signups_total",
			Help: "Waiting-list signups by outcome.",
		}, []string{"outcome"})

		loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Admin login attempts by outcome.",
		}, []string{"outcome"})

		newsCacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "news_cache_requests_total",
			Help: "Public news listing requests by cache result.",
		}, []string{"result"})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			contactSubmissionsTotal,
			waitingListSignupsTotal,
			loginAttemptsTotal,
			newsCacheRequestsTotal,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// ContactSubmissions exposes the contact submissions counter.
func ContactSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return contactSubmissionsTotal
}

// WaitingListSignups exposes the waiting-list signups counter.
func WaitingListSignups() *prometheus.CounterVec {
	RegisterMetrics()
	return waitingListSignupsTotal
}

// LoginAttempts exposes the login attempts counter.
func LoginAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return loginAttemptsTotal
}

// NewsCacheRequests exposes the news cache counter.
func NewsCacheRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return newsCacheRequestsTotal
}
