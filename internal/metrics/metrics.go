// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

/*
Package metrics declares the Prometheus collectors exported at /metrics.

Collectors are package globals registered through promauto on the default
registry; callers use the Record* helpers rather than touching label values
directly so label sets stay consistent.

Families:
  - api_*: HTTP request count, latency, in-flight gauge
  - chat_*: turns by outcome, live sessions, evictions, open sockets,
    emotion parsing
  - llm_*: language model call latency and errors
  - provider_*: recommendation lookups by provider and result, cache hits
  - circuit_breaker_*: breaker state and transitions per dependency
*/
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Conversation Metrics
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Chat turns handled, by outcome",
		},
		[]string{"outcome"}, // started, continued, exit, feeling_better, round_limit, unavailable
	)

	ChatActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_active_sessions",
			Help: "Conversations currently held in the session store",
		},
	)

	ChatSessionEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_session_evictions_total",
			Help: "Sessions dropped before reaching a terminal state",
		},
		[]string{"reason"}, // idle, capacity
	)

	ChatWebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_websocket_clients",
			Help: "Open chat websocket connections",
		},
	)

	EmotionParseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_emotion_parse_total",
			Help: "Emotion scoring responses by parse result",
		},
		[]string{"result"}, // ok, normalized, no_marker, empty, llm_error, no_model
	)

	RecommendationBundles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_recommendation_bundles_total",
			Help: "Recommendation bundles built, by music category",
		},
		[]string{"category"},
	)

	// Language Model Metrics
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Language model call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"result"}, // success, error
	)

	// Recommendation Provider Metrics
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Recommendation provider lookups by result",
		},
		[]string{"provider", "result"}, // result: success, empty, error, fallback
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Recommendation provider HTTP call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	ProviderCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_cache_hits_total",
			Help: "Recommendation lookups answered from cache",
		},
		[]string{"provider"},
	)

	ProviderCacheHitRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "provider_cache_hit_rate_percent",
			Help: "Share of recommendation lookups answered from cache, as a percentage",
		},
		[]string{"provider"},
	)

	ProviderCacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "provider_cache_entries",
			Help: "Recommendation results currently cached",
		},
		[]string{"provider"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordChatTurn counts one handled turn.
func RecordChatTurn(outcome string) {
	ChatTurnsTotal.WithLabelValues(outcome).Inc()
}

// SetActiveSessions publishes the session store size.
func SetActiveSessions(n int) {
	ChatActiveSessions.Set(float64(n))
}

// SetWebSocketClients publishes the number of open chat sockets.
func SetWebSocketClients(n int) {
	ChatWebSocketClients.Set(float64(n))
}

// RecordSessionEviction counts a session dropped by the store.
func RecordSessionEviction(reason string) {
	ChatSessionEvictions.WithLabelValues(reason).Inc()
}

// RecordEmotionParse counts one emotion scoring outcome.
func RecordEmotionParse(result string) {
	EmotionParseTotal.WithLabelValues(result).Inc()
}

// RecordRecommendationBundle counts one bundle by music category.
func RecordRecommendationBundle(category string) {
	RecommendationBundles.WithLabelValues(category).Inc()
}

// RecordLLMRequest observes one language model call.
func RecordLLMRequest(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	LLMRequestDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordProviderRequest counts a provider lookup outcome.
func RecordProviderRequest(provider, result string) {
	ProviderRequestsTotal.WithLabelValues(provider, result).Inc()
}

// ObserveProviderLatency records the duration of one provider HTTP call.
func ObserveProviderLatency(provider string, duration time.Duration) {
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordProviderCacheHit counts a lookup served from cache.
func RecordProviderCacheHit(provider string) {
	ProviderCacheHits.WithLabelValues(provider).Inc()
}

// SetProviderCacheStats publishes a provider cache's hit rate and size.
func SetProviderCacheStats(provider string, hitRate float64, entries int) {
	ProviderCacheHitRate.WithLabelValues(provider).Set(hitRate)
	ProviderCacheEntries.WithLabelValues(provider).Set(float64(entries))
}
