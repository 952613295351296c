package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/regionreport/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the run
// filled in by previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the run to modify.
	// Returns an error if the step fails; the pipeline stops there.
	Do(ctx context.Context, run *model.Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// StepFunc is called after a step completes successfully.
type StepFunc func(step Step, run *model.Run)

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// afterStep is invoked after every successful step, if set.
	afterStep StepFunc
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithAfterStep registers a callback run after each successful step.
// The command layer uses it to print progress.
func WithAfterStep(fn StepFunc) Option {
	return func(p *Pipeline) {
		p.afterStep = fn
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
//
// Design decision: We check the context before each step rather than
// relying on steps alone, so a cancelled run never starts writing a new
// output file.
//
// Returns the first error encountered, unwrapped.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.DebugContext(ctx, "pipeline cancelled",
				"step", step.Name(),
				"reason", err,
			)
			return err
		}

		p.logger.InfoContext(ctx, "executing step",
			"step", step.Name(),
		)

		// Failures are logged at debug level only. The error is returned
		// and reported once by the caller.
		if err := step.Do(ctx, run); err != nil {
			p.logger.DebugContext(ctx, "step failed",
				"step", step.Name(),
				"error", err,
			)
			return err
		}

		p.logger.DebugContext(ctx, "step completed",
			"step", step.Name(),
		)

		run.CompletedSteps = append(run.CompletedSteps, step.Name())

		if p.afterStep != nil {
			p.afterStep(step, run)
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
