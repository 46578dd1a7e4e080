// Package server implements the HTTP API using Echo framework.
//
// Routes: tilt scores (read/signal/reset/sensitivity), voice sessions
// (open/close/utterances), the live WebSocket feed, and observability
// (health, version, metrics). Handlers split by domain: handlers_tilt.go,
// handlers_sessions.go, handlers_ws.go, handlers_health.go.
package server
