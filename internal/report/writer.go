package report

import (
	"fmt"
	"io"
	"os"

	"github.com/nao1215/regionreport/internal/model"
)

// Writer defines the interface for report output.
// Implementations write run results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or buffers
// in tests with the same API.
type Writer interface {
	// Write outputs the run to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(run *model.Run) (int, error)
}

// WriterFactory builds a Writer for a destination.
type WriterFactory func(output io.Writer) Writer

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// WriteFile creates path, truncating any existing file, and writes run to
// it with a writer built by newWriter. The file is closed on every path.
// A partially written file is left in place when writing fails.
func WriteFile(path string, run *model.Run, newWriter WriterFactory) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //nolint:gosec // Output path is user configuration
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	if _, err = newWriter(f).Write(run); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
