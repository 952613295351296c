package model

import (
	"time"

	"github.com/google/uuid"
)

// Run holds the state of a single pipeline invocation.
// Each step reads the fields filled by the steps before it.
type Run struct {
	// ID uniquely identifies the run. It is used as the primary key
	// in the history database.
	ID string `json:"id"`

	// StartedAt is when the run was created.
	StartedAt time.Time `json:"started_at"`

	// InputPath is the file the loader reads.
	InputPath string `json:"input_path"`

	// OutputPath is the CSV report the writer creates.
	OutputPath string `json:"output_path"`

	// Records are the accepted input rows in file order.
	Records []Record `json:"-"`

	// SkippedLines counts data lines dropped for having fewer than 3 fields.
	SkippedLines int `json:"skipped_lines"`

	// Reports are the per-region reports sorted by region name.
	Reports []*RegionReport `json:"-"`

	// Outputs lists every file written during the run, in write order.
	Outputs []string `json:"outputs,omitempty"`

	// CompletedSteps lists the names of the steps that finished successfully.
	CompletedSteps []string `json:"completed_steps,omitempty"`
}

// NewRun creates a Run for the given input and output paths.
func NewRun(inputPath, outputPath string) *Run {
	return &Run{
		ID:         uuid.NewString(),
		StartedAt:  time.Now(),
		InputPath:  inputPath,
		OutputPath: outputPath,
	}
}

// RecordCount returns the number of accepted records.
func (r *Run) RecordCount() int {
	return len(r.Records)
}

// RegionCount returns the number of aggregated regions.
func (r *Run) RegionCount() int {
	return len(r.Reports)
}

// AddOutput records a written file.
func (r *Run) AddOutput(path string) {
	r.Outputs = append(r.Outputs, path)
}
