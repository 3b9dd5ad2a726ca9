// Package config provides application configuration management from environment variables.
//
// # Configuration Structure
//
// Runtime settings:
//
//	SMARTSLOT_MODE="production"  # development, production
//
// Observability settings:
//
//	SMARTSLOT_LOG_LEVEL="info"  # debug, info, warn, error
//	SMARTSLOT_METRICS_ENABLED="true"
//
// The runtime mode gates destructive development-only operations: the audit
// store only honors Reset when the mode is "development".
package config
