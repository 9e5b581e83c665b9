// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Logs go to stderr by default so command output on stdout stays clean.
//
// The package also bridges zap into the logger interfaces expected by the
// HTTP libraries the transport is built on (retryablehttp and resty).
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("session opened", zap.String("address", addr))
//	logger.Error("call failed", zap.Error(err))
package logging
