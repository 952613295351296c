package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Supported log formats.
const (
	// FormatText writes logfmt style key=value records.
	FormatText = "text"

	// FormatJSON writes one JSON object per record.
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for a log format other than text or json.
var ErrUnknownFormat = errors.New("unknown log format")

// NewLogger creates a new slog.Logger writing to w in the given format.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - format: FormatText or FormatJSON; empty means FormatText
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{
		Level: Level(verbose),
	}

	var handler slog.Handler
	switch format {
	case "", FormatText:
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return slog.New(NewRunHandler(handler)), nil
}

// Level returns the minimum level logged for the given verbosity.
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
