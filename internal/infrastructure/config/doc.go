// Package config provides 12-factor configuration for the CloudBrowser client.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags override environment variables.
//
// Configuration Sections:
//   - API: service origin and bearer token
//   - Transport: default timeout, response size cap, user agent
//   - Logging: log level and output format
//   - RateLimit: client-side request rate (0 = unlimited)
//   - Breaker: circuit breaker thresholds
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Talking to %s\n", cfg.API.BaseURL)
//
// Environment Variables:
//   - CLOUDBROWSER_TOKEN, CLOUDBROWSER_BASE_URL
//   - CLOUDBROWSER_TIMEOUT, CLOUDBROWSER_MAX_RESPONSE_BYTES, CLOUDBROWSER_USER_AGENT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST
//   - BREAKER_ENABLED, BREAKER_MAX_FAILURES, BREAKER_OPEN_TIMEOUT
package config
