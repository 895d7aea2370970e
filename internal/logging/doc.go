// Package logging provides structured logging for urlmap.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used by the CLI and the table server.
//
// # Log Levels
//
//   - Debug: Per-lookup detail, WebSocket messages, file watcher events
//   - Info: Server lifecycle, table reloads, mDNS registration
//   - Warn: Rejected config reloads, failed lookups over the network
//   - Error: Startup failures
//
// # Structured Logging
//
//	logging.Info("Table reloaded",
//	    zap.String("source", "/home/user/.config/urlmap/config.yaml"),
//	    zap.Int("entries", 8),
//	)
//
// # Configuration
//
// Logging is silent unless a level is given, either explicitly or through
// the URLMAP_LOG_LEVEL environment variable. This keeps CLI output clean:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
