package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	advisoriesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisories_generated_total",
			Help: "Total number of advisories generated, by content source",
		},
		[]string{"source", "severity"},
	)

	assistantRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_requests_total",
			Help: "Total number of assistant/analysis completions, by kind and content source",
		},
		[]string{"kind", "source"},
	)

	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "External completion request duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15},
		},
		[]string{"kind"},
	)

	alertsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_broadcast_total",
			Help: "Total number of system alerts broadcast",
		},
		[]string{"severity"},
	)

	alertsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_deduplicated_total",
			Help: "Total number of alert broadcasts dropped as idempotent retries",
		},
	)

	hospitalUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hospital_updates_total",
			Help: "Total number of hospital stats upserts",
		},
		[]string{"status"},
	)

	hospitalSyncFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hospital_sync_failures_total",
			Help: "Total number of swallowed hospital sync write failures",
		},
	)

	sseClientsConnected = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sse_clients_connected",
			Help: "Number of SSE subscribers currently connected",
		},
		[]string{"stream"},
	)

	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of active role sessions",
		},
	)

	notificationsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_delivered_total",
			Help: "Total number of alert notifications delivered, by channel",
		},
		[]string{"channel"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath caps path cardinality for metrics labels
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordAdvisoryGenerated records one advisory generation
func RecordAdvisoryGenerated(source, severity string) {
	advisoriesGenerated.WithLabelValues(source, severity).Inc()
}

// RecordAssistantRequest records one free-text completion
func RecordAssistantRequest(kind, source string) {
	assistantRequests.WithLabelValues(kind, source).Inc()
}

// RecordAIRequestDuration records an external completion round trip
func RecordAIRequestDuration(kind string, duration time.Duration) {
	aiRequestDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordAlertBroadcast records one broadcast alert
func RecordAlertBroadcast(severity string) {
	alertsBroadcast.WithLabelValues(severity).Inc()
}

// RecordAlertDeduplicated records a dropped idempotent retry
func RecordAlertDeduplicated() {
	alertsDeduplicated.Inc()
}

// RecordHospitalUpdate records one hospital stats upsert
func RecordHospitalUpdate(status string) {
	hospitalUpdates.WithLabelValues(status).Inc()
}

// RecordHospitalSyncFailure records a swallowed sync write failure
func RecordHospitalSyncFailure() {
	hospitalSyncFailures.Inc()
}

// SSEClientConnected tracks an SSE subscriber attach
func SSEClientConnected(stream string) {
	sseClientsConnected.WithLabelValues(stream).Inc()
}

// SSEClientDisconnected tracks an SSE subscriber detach
func SSEClientDisconnected(stream string) {
	sseClientsConnected.WithLabelValues(stream).Dec()
}

// RecordSessionsActive records the current session count
func RecordSessionsActive(count int) {
	sessionsActive.Set(float64(count))
}

// RecordNotificationDelivered records one delivered alert notification
func RecordNotificationDelivered(channel string) {
	notificationsDelivered.WithLabelValues(channel).Inc()
}
