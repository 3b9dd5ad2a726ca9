// Package observability provides structured logging and Prometheus metrics
// shared by every subsystem.
//
// Logging uses stdlib slog with a JSON handler behind a small Logger wrapper.
// Metrics are registered against an injectable *prometheus.Registry so tests
// can use isolated registries.
package observability
