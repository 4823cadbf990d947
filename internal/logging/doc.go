// Package logging provides structured logging for irblaster.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used throughout the tools: general leveled logging plus
// helpers for encoded frames, bridge connections and raw byte dumps.
//
// # Log Levels
//
//   - Debug: Frame bitstreams, pulse counts, hex dumps, poll loops
//   - Info: Transmissions, bridge connections, MQTT requests
//   - Warn: Non-fatal issues (dropped connections, ignored ioctls)
//   - Error: Failed transmissions, startup failures
//
// # Configuration
//
// CLI commands stay silent unless IRBLASTER_LOG_LEVEL is set:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Long-running services pass an explicit level:
//
//	if err := logging.Initialize("info"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Frame Logging
//
//	logging.LogFrame("Transmitting frame", bits, frame)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once initialized.
package logging
