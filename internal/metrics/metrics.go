package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Calls made to the REST backend
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingoplay_api_requests_total",
			Help: "Total number of requests sent to the REST backend",
		},
		[]string{"method", "status"}, // status: HTTP code or "error"
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lingoplay_api_request_duration_seconds",
			Help:    "Time spent waiting on the REST backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingoplay_token_refreshes_total",
			Help: "Access token refresh attempts after a 403",
		},
		[]string{"outcome"}, // outcome: success/failure
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingoplay_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status", "method"}, // status: success/failure, method: password/google
	)

	AnswerSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingoplay_answer_submissions_total",
			Help: "Quiz answers submitted, by mode and verdict",
		},
		[]string{"mode", "result"}, // result: correct/incorrect/error
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingoplay_query_cache_lookups_total",
			Help: "Query cache lookups by outcome",
		},
		[]string{"outcome"}, // outcome: hit/miss/error
	)
)

// Handler exposes the default registry for scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
