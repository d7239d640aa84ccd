// Package metrics exposes the prometheus collectors of the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statusgo_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "statusgo_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// FeedRequests counts served feeds by strategy: personalized, cold_start, trending.
	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statusgo_feed_requests_total",
			Help: "Total number of feed pages served, by ranking strategy",
		},
		[]string{"strategy"},
	)

	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "statusgo_feed_rank_duration_seconds",
			Help:    "Time spent scoring and ordering feed candidates",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RankCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "statusgo_feed_rank_candidates",
			Help:    "Number of posts scored per personalized feed request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// LikeToggles counts like toggles by resulting action: like, unlike.
	LikeToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statusgo_like_toggles_total",
			Help: "Total number of like toggles, by resulting action",
		},
		[]string{"action"},
	)
)

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFeed records a served feed page.
func RecordFeed(strategy string) {
	FeedRequests.WithLabelValues(strategy).Inc()
}

// RecordRank records one ranking pass over n candidates.
func RecordRank(n int, duration time.Duration) {
	RankCandidates.Observe(float64(n))
	RankDuration.Observe(duration.Seconds())
}

// RecordLikeToggle records the outcome of a like toggle.
func RecordLikeToggle(liked bool) {
	action := "unlike"
	if liked {
		action = "like"
	}
	LikeToggles.WithLabelValues(action).Inc()
}
