package report

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/nao1215/regionreport/internal/model"
)

// JSONWriter outputs run results in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because it is sufficient for a small document and gives
// consistent behavior across Go versions.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// NewJSONWriterFactory adapts NewJSONWriter with pretty printing to WriterFactory.
func NewJSONWriterFactory(output io.Writer) Writer {
	return NewJSONWriter(output, WithPrettyPrint())
}

// JSONRun is the JSON document written for a run.
//
// Numbers are kept as floats so consumers do not need to parse the decimal
// comma. Non-finite values are not representable in JSON and are written
// as null.
type JSONRun struct {
	// ID is the run identifier.
	ID string `json:"id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Input is the path of the loaded file.
	Input string `json:"input"`

	// Records is the number of accepted records.
	Records int `json:"records"`

	// SkippedLines is the number of short lines dropped by the loader.
	SkippedLines int `json:"skipped_lines"`

	// Regions holds one entry per region, sorted by name.
	Regions []JSONRegion `json:"regions"`
}

// JSONRegion is the JSON form of a region report.
type JSONRegion struct {
	Region  string              `json:"region"`
	Total   *float64            `json:"total"`
	Years   map[string]*float64 `json:"years"`
	Average *float64            `json:"average"`
}

// NewJSONRun converts a run into its JSON document.
func NewJSONRun(run *model.Run) *JSONRun {
	doc := &JSONRun{
		ID:           run.ID,
		StartedAt:    run.StartedAt,
		Input:        run.InputPath,
		Records:      run.RecordCount(),
		SkippedLines: run.SkippedLines,
		Regions:      make([]JSONRegion, 0, len(run.Reports)),
	}

	for _, r := range run.Reports {
		years := make(map[string]*float64, r.YearCount())
		for year, value := range r.ValuesByYear() {
			years[strconv.Itoa(year)] = finite(value)
		}
		doc.Regions = append(doc.Regions, JSONRegion{
			Region:  r.Region,
			Total:   finite(r.Total),
			Years:   years,
			Average: finite(r.Average()),
		})
	}

	return doc
}

// finite returns a pointer to v, or nil when v is NaN or infinite.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Write outputs the run in JSON format.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	return w.writeJSON(NewJSONRun(run))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
