package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/regionreport/internal/aggregate"
	"github.com/nao1215/regionreport/internal/loader"
	"github.com/nao1215/regionreport/internal/model"
	"github.com/nao1215/regionreport/internal/report"
)

// Step names.
const (
	StepLoad      = "load"
	StepAggregate = "aggregate"
	StepWriteCSV  = "write_csv"
	StepMarkdown  = "write_markdown"
	StepJSON      = "write_json"
	StepXLSX      = "write_xlsx"
	StepHistory   = "save_history"
)

// LoadStep reads run.InputPath into run.Records.
type LoadStep struct {
	// loader parses the input file.
	loader *loader.Loader

	// logger for structured logging.
	logger *slog.Logger
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithLoadLogger sets a custom logger for the load step.
func WithLoadLogger(logger *slog.Logger) LoadStepOption {
	return func(s *LoadStep) {
		s.logger = logger
	}
}

// NewLoadStep creates a load step. A nil loader reads UTF-8 input.
func NewLoadStep(l *loader.Loader, opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{
		loader: l,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.loader == nil {
		s.loader = loader.New(loader.WithLogger(s.logger))
	}

	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return StepLoad
}

// Do executes the load step.
func (s *LoadStep) Do(ctx context.Context, run *model.Run) error {
	result, err := s.loader.Load(ctx, run.InputPath)
	if err != nil {
		return err
	}

	run.Records = result.Records
	run.SkippedLines = result.Skipped

	s.logger.InfoContext(ctx, "input loaded",
		"input_path", run.InputPath,
		"records", len(result.Records),
		"skipped", result.Skipped,
	)
	if result.Skipped > 0 {
		s.logger.DebugContext(ctx, "short lines skipped", "count", result.Skipped)
	}

	return nil
}

// AggregateStep groups run.Records into run.Reports.
type AggregateStep struct{}

// NewAggregateStep creates an aggregation step.
func NewAggregateStep() *AggregateStep {
	return &AggregateStep{}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return StepAggregate
}

// Do executes the aggregation step. It cannot fail.
func (s *AggregateStep) Do(_ context.Context, run *model.Run) error {
	run.Reports = aggregate.Regions(run.Records)
	return nil
}

// WriteStep writes the run to a file with a report writer.
// The same type serves every output format.
type WriteStep struct {
	// name is the step name.
	name string

	// path is the destination file. Empty means run.OutputPath.
	path string

	// newWriter builds the format writer for the opened file.
	newWriter report.WriterFactory
}

// NewWriteCSVStep creates the step writing the CSV report to run.OutputPath.
func NewWriteCSVStep() *WriteStep {
	return &WriteStep{name: StepWriteCSV, newWriter: report.NewCSVWriterFactory}
}

// NewMarkdownStep creates a step writing the Markdown summary to path.
func NewMarkdownStep(path string) *WriteStep {
	return &WriteStep{name: StepMarkdown, path: path, newWriter: report.NewMarkdownWriterFactory}
}

// NewJSONStep creates a step writing the JSON document to path.
func NewJSONStep(path string) *WriteStep {
	return &WriteStep{name: StepJSON, path: path, newWriter: report.NewJSONWriterFactory}
}

// NewXLSXStep creates a step writing the Excel workbook to path.
func NewXLSXStep(path string) *WriteStep {
	return &WriteStep{name: StepXLSX, path: path, newWriter: report.NewXLSXWriterFactory}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return s.name
}

// Path returns the file the step writes, resolved against run.
func (s *WriteStep) Path(run *model.Run) string {
	if s.path == "" {
		return run.OutputPath
	}
	return s.path
}

// Do executes the write step and records the output path on success.
func (s *WriteStep) Do(_ context.Context, run *model.Run) error {
	path := s.Path(run)
	if err := report.WriteFile(path, run, s.newWriter); err != nil {
		return err
	}
	run.AddOutput(path)
	return nil
}

// RunSaver stores a finished run.
// *database.HistoryDB implements it.
type RunSaver interface {
	SaveRun(ctx context.Context, run *model.Run) error
}

// HistoryStep stores the run in the history database.
type HistoryStep struct {
	// saver receives the run.
	saver RunSaver
}

// NewHistoryStep creates a history step.
func NewHistoryStep(saver RunSaver) *HistoryStep {
	return &HistoryStep{saver: saver}
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return StepHistory
}

// Do executes the history step.
func (s *HistoryStep) Do(ctx context.Context, run *model.Run) error {
	if err := s.saver.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save run history: %w", err)
	}
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Loader parses the input. Nil means a UTF-8 loader.
	Loader *loader.Loader

	// MarkdownPath enables the Markdown summary when not empty.
	MarkdownPath string

	// JSONPath enables the JSON document when not empty.
	JSONPath string

	// XLSXPath enables the Excel workbook when not empty.
	XLSXPath string

	// History enables run history when not nil.
	History RunSaver
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineLoader sets the loader used by the load step.
func WithPipelineLoader(l *loader.Loader) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Loader = l
	}
}

// WithPipelineMarkdown enables the Markdown summary.
func WithPipelineMarkdown(path string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MarkdownPath = path
	}
}

// WithPipelineJSON enables the JSON document.
func WithPipelineJSON(path string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.JSONPath = path
	}
}

// WithPipelineXLSX enables the Excel workbook.
func WithPipelineXLSX(path string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.XLSXPath = path
	}
}

// WithPipelineHistory enables run history.
func WithPipelineHistory(saver RunSaver) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.History = saver
	}
}

// DefaultPipeline creates a pipeline with the standard steps configured.
//
// The order is always load, aggregate, CSV report, then the optional
// Markdown, JSON and XLSX outputs, and finally history. History runs last
// so that a stored run lists every output that was written.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The rest accept pipeline config options (WithPipelineMarkdown, etc).
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddSteps(
		NewLoadStep(cfg.Loader, WithLoadLogger(p.logger)),
		NewAggregateStep(),
		NewWriteCSVStep(),
	)

	if cfg.MarkdownPath != "" {
		p.AddStep(NewMarkdownStep(cfg.MarkdownPath))
	}
	if cfg.JSONPath != "" {
		p.AddStep(NewJSONStep(cfg.JSONPath))
	}
	if cfg.XLSXPath != "" {
		p.AddStep(NewXLSXStep(cfg.XLSXPath))
	}
	if cfg.History != nil {
		p.AddStep(NewHistoryStep(cfg.History))
	}

	return p
}
