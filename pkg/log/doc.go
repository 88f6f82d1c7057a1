// Package log provides structured protocol logging for the provisioning SDK.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events (publishes, deliveries, handshake state changes,
// dispatch errors). It is separate from operational logging (slog) - protocol
// capture provides a complete machine-readable event trace for debugging and
// analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Events = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Events, _ = log.NewFileLogger("/var/log/device/provision.plog")
//
//	// Both: use MultiLogger
//	cfg.Events = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files use CBOR encoding with integer keys. Reader streams events back
// out of a file, optionally filtered by session, topic, or time range.
package log
