package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when the input path is empty.
	ErrNoInput = errors.New("no input file specified: use --input")

	// ErrNoOutput is returned when the output path is empty.
	ErrNoOutput = errors.New("no output file specified: use --output")

	// ErrSamePath is returned when the output would overwrite the input.
	ErrSamePath = errors.New("output file must differ from the input file")

	// ErrConflictingOutputs is returned when two report formats are
	// configured to write the same file.
	ErrConflictingOutputs = errors.New("conflicting outputs: each report format needs its own file")

	// ErrUnknownEncoding is returned for an input encoding that is not supported.
	ErrUnknownEncoding = errors.New("unknown input encoding")

	// ErrInvalidLogFormat is returned when the log format is not text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrNoDBDir is returned when history is enabled without a database directory.
	ErrNoDBDir = errors.New("history enabled but no database directory specified: use --db-dir")
)
