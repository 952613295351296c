// Package log provides the application logger, built on top of the
// standard slog package.
//
// This package extends slog to provide:
//   - A run identifier attached to every record logged with a run context
//   - Home directory abbreviation in path attributes
//   - Configurable log levels with verbose mode support
//   - Text or JSON output
//
// # Usage
//
//	logger, err := log.NewLogger(os.Stderr, log.FormatText, verbose)
//	if err != nil {
//	    return err
//	}
//
//	ctx = log.WithRunID(ctx, run.ID)
//	logger.InfoContext(ctx, "records loaded", "count", 42)
//	// time=... level=INFO msg="records loaded" count=42 run_id=...
//
// Log output goes to stderr. Progress messages meant for the user are
// printed by the command layer and never go through the logger.
package log
