package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ibp_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ibp_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ibp_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// RateLimiterRejections counts rejected requests due to rate limiting
	RateLimiterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ibp_rate_limiter_rejections_total",
			Help: "Total number of requests rejected by rate limiter",
		},
		[]string{"limiter"},
	)

	// DatabaseOperationDuration measures database operation duration
	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ibp_db_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// CacheHits counts snapshot cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ibp_cache_hits_total",
			Help: "Total number of snapshot cache hits",
		},
	)

	// CacheMisses counts snapshot cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ibp_cache_misses_total",
			Help: "Total number of snapshot cache misses",
		},
	)

	// DashboardDerivations counts dashboards computed, labelled by the current stage status
	DashboardDerivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ibp_dashboard_derivations_total",
			Help: "Total number of dashboards derived",
		},
		[]string{"current_status"},
	)

	// DashboardAnomalies counts snapshots that needed a fallback or held conflicting data
	DashboardAnomalies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ibp_dashboard_anomalies_total",
			Help: "Total number of dashboard anomalies by kind",
		},
		[]string{"kind"}, // "stage_fallback", "duplicate_active_assignment"
	)

	// Reviews counts stage reviews by outcome
	Reviews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ibp_stage_reviews_total",
			Help: "Total number of stage reviews",
		},
		[]string{"status"},
	)

	// Submissions counts accepted assignment submissions
	Submissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ibp_submissions_total",
			Help: "Total number of accepted assignment submissions",
		},
	)

	// NotificationsSent counts notifications by channel and result
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ibp_notifications_total",
			Help: "Total number of notifications sent",
		},
		[]string{"channel", "result"},
	)

	// WebsocketClients tracks connected dashboard websocket clients
	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ibp_websocket_clients",
			Help: "Number of connected websocket clients",
		},
	)

	// MemoryStats tracks memory usage stats
	MemoryStats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ibp_memory_stats_bytes",
			Help: "Memory statistics in bytes",
		},
		[]string{"type"},
	)

	// GoroutineCount tracks the number of goroutines
	GoroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ibp_goroutine_count",
			Help: "Number of goroutines",
		},
	)

	// SystemCPUUsage tracks CPU usage percentage
	SystemCPUUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ibp_system_cpu_usage_percent",
			Help: "CPU usage percentage by core",
		},
		[]string{"core"},
	)

	// SystemLoadAverage tracks system load averages
	SystemLoadAverage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ibp_system_load_average",
			Help: "System load average",
		},
		[]string{"period"}, // "1min", "5min", "15min"
	)
)

// RecordDBOperation records the duration of a database operation
func RecordDBOperation(operation string, table string, startTime time.Time) {
	duration := time.Since(startTime).Seconds()
	DatabaseOperationDuration.WithLabelValues(operation, table).Observe(duration)
}
