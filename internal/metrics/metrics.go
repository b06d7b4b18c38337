package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_votes_total",
			Help: "Total number of accepted poll votes",
		},
		[]string{"school", "option"},
	)

	PollsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polls_generated_total",
			Help: "Total number of daily polls generated",
		},
		[]string{"school"},
	)

	PurgedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retention_purged_records_total",
			Help: "Records removed by the retention sweeper",
		},
		[]string{"kind"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_events_published_total",
			Help: "Poll lifecycle events published to redis",
		},
		[]string{"kind"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
