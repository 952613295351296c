package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nao1215/regionreport/internal/model"
)

const (
	// fieldSeparator separates the fields of a data line.
	fieldSeparator = ";"

	// minFields is the number of fields a line needs to produce a record.
	minFields = 3

	// MaxLineSize is the longest line the loader accepts, in bytes.
	MaxLineSize = 1024 * 1024

	// cancelCheckInterval is how many lines are read between context checks.
	cancelCheckInterval = 1024
)

// Result is the outcome of a successful load.
type Result struct {
	// Records are the accepted lines in file order.
	Records []model.Record

	// Skipped counts data lines dropped for having fewer than 3 fields.
	Skipped int

	// Lines counts the data lines read, header excluded.
	Lines int
}

// Loader parses measurement files.
type Loader struct {
	// enc decodes the raw input bytes into UTF-8.
	enc encoding.Encoding

	// logger receives debug output about skipped lines.
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithEncoding sets the input encoding. Use LookupEncoding to resolve a label.
func WithEncoding(enc encoding.Encoding) Option {
	return func(l *Loader) {
		if enc != nil {
			l.enc = enc
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader. The default encoding is UTF-8.
func New(opts ...Option) *Loader {
	l := &Loader{
		enc: unicode.UTF8,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = slog.Default()
	}

	return l
}

// Load opens path and parses it. The file is closed before Load returns.
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path) //nolint:gosec // Input path is user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return l.Parse(ctx, f)
}

// Parse reads records from r. The first line is skipped as a header.
//
// A malformed year or value on a line with at least 3 fields aborts the
// parse with a *ParseError and no partial result.
func (l *Loader) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(transform.NewReader(r, l.enc.NewDecoder()))
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	result := &Result{
		Records: make([]model.Record, 0),
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}

		if lineNo%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		result.Lines++

		fields := splitFields(scanner.Text())
		if len(fields) < minFields {
			result.Skipped++
			l.logger.DebugContext(ctx, "skipping short line",
				"line", lineNo,
				"fields", len(fields),
			)
			continue
		}

		record, err := parseRecord(lineNo, fields)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, record)
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("line %d exceeds %d bytes: %w", lineNo+1, MaxLineSize, err)
		}
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return result, nil
}

// splitFields splits a line on ';' and drops trailing empty fields,
// so "2003;Lazio;" yields two fields and is skipped as too short.
func splitFields(line string) []string {
	fields := strings.Split(line, fieldSeparator)
	for len(fields) > 1 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

// parseRecord converts the first three fields of a line into a Record.
func parseRecord(lineNo int, fields []string) (model.Record, error) {
	year, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil {
		return model.Record{}, &ParseError{
			Line: lineNo,
			Kind: ErrInvalidYear,
			Text: fields[0],
			Err:  err,
		}
	}

	value, err := parseDecimalComma(fields[2])
	if err != nil {
		return model.Record{}, &ParseError{
			Line: lineNo,
			Kind: ErrInvalidValue,
			Text: fields[2],
			Err:  err,
		}
	}

	return model.NewRecord(int(year), fields[1], value), nil
}

// parseDecimalComma parses a number written with ',' as decimal separator.
// Leading and trailing ASCII control and space characters are ignored;
// other Unicode spaces make the value invalid. Values too large for float64
// parse as ±Inf instead of failing.
//
// The only spelled-out values are "Infinity" and "NaN", each with an
// optional sign and in exactly that case. Other forms strconv would take
// ("inf", "nan", "+Inf", digit underscores) are rejected.
func parseDecimalComma(s string) (float64, error) {
	normalized := strings.TrimFunc(strings.ReplaceAll(s, ",", "."), isASCIISpace)

	unsigned, negative := normalized, false
	if unsigned != "" && (unsigned[0] == '+' || unsigned[0] == '-') {
		negative = unsigned[0] == '-'
		unsigned = unsigned[1:]
	}
	switch unsigned {
	case "Infinity":
		if negative {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	case "NaN":
		return math.NaN(), nil
	}
	if strings.ContainsAny(unsigned, "iInN_") {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: normalized, Err: strconv.ErrSyntax}
	}

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return value, nil
}

// isASCIISpace reports whether r is a space or an ASCII control character.
func isASCIISpace(r rune) bool {
	return r <= ' '
}
