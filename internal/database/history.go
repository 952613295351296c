package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nao1215/regionreport/internal/model"
	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the name of the database file inside the database directory.
const FileName = "regionreport.db"

// timestampLayout is the fixed-width UTC layout used for started_at,
// so that text ordering matches time ordering.
const timestampLayout = "2006-01-02 15:04:05.000000000"

// HistoryDB provides SQLite-based storage for run history.
// It manages the connection and provides methods to save and query runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ReadOnlyOptions returns options for reading an existing database.
// Open fails with ErrNotFound when the database does not exist.
func ReadOnlyOptions() Options {
	return Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	}
}

// ErrNotFound is returned by Open when the database file does not exist
// and CreateIfNotExists is false.
var ErrNotFound = errors.New("history database not found")

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, ErrNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite takes the open mode in the DSN.
	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per pipeline run
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		input_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		skipped_lines INTEGER NOT NULL,
		region_count INTEGER NOT NULL,
		outputs TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	-- Region reports in report order; values_json maps year to value
	CREATE TABLE IF NOT EXISTS region_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		region TEXT NOT NULL,
		total TEXT NOT NULL,
		values_json TEXT NOT NULL,
		UNIQUE(run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_region_reports_run ON region_reports(run_id);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is the stored summary of a run.
type RunRecord struct {
	ID           string
	StartedAt    time.Time
	InputPath    string
	OutputPath   string
	RecordCount  int
	SkippedLines int
	RegionCount  int
	Outputs      []string
}

// SaveRun stores the run and its region reports in one transaction.
// Saving the same run ID twice fails.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *model.Run) (err error) {
	outputsJSON, err := json.Marshal(run.Outputs)
	if err != nil {
		return fmt.Errorf("failed to serialize outputs: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, started_at, input_path, output_path, record_count, skipped_lines, region_count, outputs)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.StartedAt.UTC().Format(timestampLayout),
		run.InputPath,
		run.OutputPath,
		run.RecordCount(),
		run.SkippedLines,
		run.RegionCount(),
		string(outputsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO region_reports (run_id, position, region, total, values_json)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare region insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range run.Reports {
		valuesJSON, err := encodeValues(r.ValuesByYear())
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, r.Region, formatFloat(r.Total), valuesJSON); err != nil {
			return fmt.Errorf("failed to save region %q: %w", r.Region, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
// A limit of zero or less returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, started_at, input_path, output_path, record_count, skipped_lines, region_count, outputs
	FROM runs
	ORDER BY started_at DESC, rowid DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *record)
	}

	return results, rows.Err()
}

// GetRun retrieves a run by its ID.
// It returns nil without error when no run has that ID.
func (hdb *HistoryDB) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := hdb.db.QueryRowContext(ctx, `
	SELECT id, started_at, input_path, output_path, record_count, skipped_lines, region_count, outputs
	FROM runs
	WHERE id = ?
	`, id)

	record, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetRegionReports returns the region reports of a run in report order.
// It returns an empty slice when the run has no reports or does not exist.
func (hdb *HistoryDB) GetRegionReports(ctx context.Context, runID string) ([]*model.RegionReport, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT region, total, values_json
	FROM region_reports
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get region reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*model.RegionReport, 0)
	for rows.Next() {
		var region, totalText, valuesJSON string
		if err := rows.Scan(&region, &totalText, &valuesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan region report: %w", err)
		}

		total, err := strconv.ParseFloat(totalText, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse total of %q: %w", region, err)
		}
		values, err := decodeValues(valuesJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to parse values of %q: %w", region, err)
		}

		reports = append(reports, model.RestoreRegionReport(region, total, values))
	}

	return reports, rows.Err()
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row.
func scanRun(row rowScanner) (*RunRecord, error) {
	var record RunRecord
	var startedAt string
	var outputsJSON sql.NullString

	err := row.Scan(
		&record.ID,
		&startedAt,
		&record.InputPath,
		&record.OutputPath,
		&record.RecordCount,
		&record.SkippedLines,
		&record.RegionCount,
		&outputsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	record.StartedAt = parseTimestamp(startedAt)

	if outputsJSON.Valid && outputsJSON.String != "" {
		if err := json.Unmarshal([]byte(outputsJSON.String), &record.Outputs); err != nil {
			return nil, fmt.Errorf("failed to parse outputs: %w", err)
		}
	}

	return &record, nil
}

// encodeValues serializes per-year values as a JSON object of decimal text.
func encodeValues(values map[int]float64) (string, error) {
	encoded := make(map[string]string, len(values))
	for year, value := range values {
		encoded[strconv.Itoa(year)] = formatFloat(value)
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to serialize values: %w", err)
	}
	return string(data), nil
}

// decodeValues parses the output of encodeValues.
func decodeValues(s string) (map[int]float64, error) {
	var encoded map[string]string
	if err := json.Unmarshal([]byte(s), &encoded); err != nil {
		return nil, err
	}

	values := make(map[int]float64, len(encoded))
	for yearText, valueText := range encoded {
		year, err := strconv.Atoi(yearText)
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseFloat(valueText, 64)
		if err != nil {
			return nil, err
		}
		values[year] = value
	}
	return values, nil
}

// formatFloat renders v so that strconv.ParseFloat returns it unchanged.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,        // Layout written by SaveRun
	"2006-01-02 15:04:05",  // SQLite default datetime format
	"2006-01-02T15:04:05Z", // ISO 8601 with Z suffix
	time.RFC3339Nano,       // RFC3339 with nanoseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// Timestamps without a zone are read as UTC.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
