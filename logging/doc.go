// Package logging provides a minimal logging interface and adapters for the
// customer-service orchestrator.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the router, protocol client and specialist agents use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// The design intentionally keeps the interface minimal so callers can plug in
// any structured logger while supporting slog out of the box.
package logging
