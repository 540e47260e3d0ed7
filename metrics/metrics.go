package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var FeedRequestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feed_request_total",
	Help: "The total number of requests by endpoint to the results feed",
}, []string{"endpoint"})

var FeedResponseCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feed_response_total",
	Help: "The total number of responses by status code from the results feed",
}, []string{"status_code"})

var FeedRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "feed_request_duration_seconds",
	Help: "Duration of requests to the results feed",
}, []string{"endpoint"})

var ResultsSyncedCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "results_synced_total",
	Help: "The total number of golfer result rows written from feed snapshots",
})

var SnapshotsPublishedCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "result_snapshots_published_total",
	Help: "The total number of feed snapshots published to kafka",
})

var DraftPicksCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "draft_picks_total",
	Help: "The total number of accepted draft picks",
})

var DraftsStartedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "drafts_started_total",
	Help: "The number of drafts started by order mode",
}, []string{"mode"})

var FinalizationsCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pool_finalizations_total",
	Help: "The number of pools finalized",
})

var FinalizationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "pool_finalization_duration_s",
	Help: "Duration of the finalization transaction",
	Buckets: []float64{
		0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10,
	},
})

var DraftSocketGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "draft_socket_connections",
	Help: "Current number of open draft websocket connections",
})

var LeaderboardSocketGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "leaderboard_socket_connections",
	Help: "Current number of open leaderboard websocket connections",
})
