package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "runpool_http_requests_total", Help: "Total HTTP requests by route and status"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "runpool_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	LeaderboardComputations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "runpool_leaderboard_computations_total", Help: "Total leaderboard computations"},
	)
	ProofsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "runpool_proofs_submitted_total", Help: "Total proofs accepted"},
	)
	RecapEmails = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "runpool_recap_emails_total", Help: "Recap email deliveries by result"},
		[]string{"result"},
	)
	StreamSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "runpool_stream_subscribers", Help: "Open leaderboard stream connections"},
	)
)

func Register() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPDuration,
		LeaderboardComputations,
		ProofsSubmitted,
		RecapEmails,
		StreamSubscribers,
	)
}
