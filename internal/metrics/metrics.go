package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Signal Pipeline Metrics
var (
	// SignalsProcessed tracks applied signals by polarity (tilt/calming)
	SignalsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tilt_signals_processed_total",
			Help: "Total signals applied to scores by polarity",
		},
		[]string{"polarity"},
	)

	// SignalsRateLimited tracks signals dropped by the per-user rate limiter
	SignalsRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tilt_signals_rate_limited_total",
			Help: "Total signals dropped by the per-user rate limiter",
		},
	)

	// AlertsTriggered tracks updates that crossed the critical threshold
	AlertsTriggered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tilt_alerts_triggered_total",
			Help: "Total updates that pushed a score past the alert threshold",
		},
	)
)

// Classifier Metrics
var (
	// ClassifierRequests tracks classifier calls by outcome (ok/error/open)
	ClassifierRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_requests_total",
			Help: "Total sentiment classifier requests by outcome",
		},
		[]string{"outcome"},
	)

	// ClassifierDuration tracks classifier request latency in seconds
	ClassifierDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "classifier_request_duration_seconds",
			Help:    "Sentiment classifier request duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// ClassifierFallbacks tracks silent fallbacks to keyword extraction
	ClassifierFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classifier_fallbacks_total",
			Help: "Total analyses that fell back to keyword extraction",
		},
	)

	// ClassifierBreakerState tracks circuit breaker state (0=closed, 1=half-open, 2=open)
	ClassifierBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classifier_circuit_breaker_state",
			Help: "Classifier circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// Voice Session Metrics
var (
	// VoiceSessionsActive tracks currently open voice sessions
	VoiceSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voice_sessions_active",
			Help: "Number of currently open voice sessions",
		},
	)

	// VoiceUtterancesProcessed tracks transcribed utterances fed to the engine
	VoiceUtterancesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voice_utterances_processed_total",
			Help: "Total transcribed utterances processed by session workers",
		},
	)

	// VoiceUtterancesDropped tracks utterances dropped due to a full session queue
	VoiceUtterancesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voice_utterances_dropped_total",
			Help: "Total utterances dropped because a session queue was full",
		},
	)
)

// WebSocket Metrics
var (
	// WebSocketClients tracks currently connected live-feed clients
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_clients_current",
			Help: "Currently connected WebSocket clients",
		},
	)

	// WebSocketSlowClientsEvicted tracks slow clients disconnected by the hub
	WebSocketSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_slow_clients_evicted_total",
			Help: "Total slow WebSocket clients evicted due to full send buffers",
		},
	)
)

// Build Information Metrics
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information with version, commit, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// HTTP Request Metrics
// Note: http_errors_total{type} is provided by internal/errors middleware.
