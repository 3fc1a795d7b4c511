package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ingestor metrics
	BlocksIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massbit_blocks_ingested_total",
			Help: "Total number of block envelopes published by chain and network",
		},
		[]string{"chain", "network"},
	)

	IngestGaps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massbit_ingest_gaps_total",
			Help: "Total number of blocks skipped after repeated fetch failures",
		},
		[]string{"chain", "network"},
	)

	BlockFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "massbit_block_fetch_duration_seconds",
			Help:    "Upstream RPC block fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain"},
	)

	UpstreamReconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massbit_upstream_reconnects_total",
			Help: "Total number of upstream subscription reconnects",
		},
		[]string{"chain", "network"},
	)

	// Stream server metrics
	ActiveSubscribers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "massbit_stream_subscribers",
			Help: "Number of active ListBlocks subscribers by chain and network",
		},
		[]string{"chain", "network"},
	)

	SubscribersLagged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massbit_stream_subscribers_lagged_total",
			Help: "Total number of subscribers dropped after falling out of the ring",
		},
		[]string{"chain", "network"},
	)

	EnvelopesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massbit_stream_envelopes_sent_total",
			Help: "Total number of envelopes forwarded to subscribers",
		},
		[]string{"chain", "network"},
	)

	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massbit_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	// Consumer metrics
	ConsumerReconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massbit_consumer_reconnects_total",
			Help: "Total number of consumer stream reconnects",
		},
		[]string{"indexer_id"},
	)

	HandlerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "massbit_handler_duration_seconds",
			Help:    "Handler invocation duration in seconds by adapter",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"adapter"},
	)

	HandlerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massbit_handler_failures_total",
			Help: "Total number of handler invocations that returned an error",
		},
		[]string{"adapter"},
	)

	CursorHeight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "massbit_consumer_cursor_height",
			Help: "Next expected block number per indexer",
		},
		[]string{"indexer_id"},
	)

	// Entity store metrics
	ModificationsFlushed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massbit_store_modifications_total",
			Help: "Total number of entity modifications flushed by kind",
		},
		[]string{"kind"},
	)

	FlushDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "massbit_store_flush_duration_seconds",
			Help:    "Time taken to materialize and commit a block's modifications",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(BlocksIngested)
	prometheus.MustRegister(IngestGaps)
	prometheus.MustRegister(BlockFetchDuration)
	prometheus.MustRegister(UpstreamReconnects)
	prometheus.MustRegister(ActiveSubscribers)
	prometheus.MustRegister(SubscribersLagged)
	prometheus.MustRegister(EnvelopesSent)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(ConsumerReconnects)
	prometheus.MustRegister(HandlerDuration)
	prometheus.MustRegister(HandlerFailures)
	prometheus.MustRegister(CursorHeight)
	prometheus.MustRegister(ModificationsFlushed)
	prometheus.MustRegister(FlushDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Observer) {
	histogram.Observe(time.Since(t.start).Seconds())
}
