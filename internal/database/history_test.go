package database

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/regionreport/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// createTestRun creates a run with two region reports.
func createTestRun(startedAt time.Time) *model.Run {
	run := model.NewRun("in.csv", "out.csv")
	run.StartedAt = startedAt
	run.Records = []model.Record{
		model.NewRecord(2003, "Umbria", 10),
		model.NewRecord(2005, "Umbria", 5),
		model.NewRecord(2005, "Umbria", 7),
		model.NewRecord(2004, "Lazio", 1.5),
	}
	run.SkippedLines = 1

	lazio := model.NewRegionReport("Lazio")
	lazio.Add(2004, 1.5)
	umbria := model.NewRegionReport("Umbria")
	umbria.Add(2003, 10)
	umbria.Add(2005, 5)
	umbria.Add(2005, 7)
	run.Reports = []*model.RegionReport{lazio, umbria}
	run.AddOutput("out.csv")

	return run
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		dbPath := filepath.Join(dbDir, FileName)
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != dbPath {
			t.Errorf("expected path %q, got %q", dbPath, db.Path())
		}
	})

	t.Run("read only options fail for missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), ReadOnlyOptions())
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if err := db.SaveRun(context.Background(), createTestRun(time.Now())); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		_ = db.Close()

		db, err = Open(dbDir, ReadOnlyOptions())
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run, got %d", len(runs))
		}
	})
}

// TestDefaultOptions tests the default database options.
func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.CreateIfNotExists {
		t.Error("expected CreateIfNotExists to be true")
	}
	if !opts.EnableWAL {
		t.Error("expected EnableWAL to be true")
	}
}

// TestSaveAndGetRun tests storing and reading back a run.
func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	t.Run("round trips run metadata", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		startedAt := time.Date(2024, 3, 1, 12, 30, 45, 123456789, time.UTC)
		run := createTestRun(startedAt)

		if err := db.SaveRun(ctx, run); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		got, err := db.GetRun(ctx, run.ID)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if got == nil {
			t.Fatal("expected run to be found")
		}
		if got.ID != run.ID || got.InputPath != "in.csv" || got.OutputPath != "out.csv" {
			t.Errorf("unexpected run: %+v", got)
		}
		if got.RecordCount != 4 || got.SkippedLines != 1 || got.RegionCount != 2 {
			t.Errorf("unexpected counts: %+v", got)
		}
		if !got.StartedAt.Equal(startedAt) {
			t.Errorf("expected started at %v, got %v", startedAt, got.StartedAt)
		}
		if len(got.Outputs) != 1 || got.Outputs[0] != "out.csv" {
			t.Errorf("unexpected outputs: %v", got.Outputs)
		}
	})

	t.Run("unknown run returns nil", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		got, err := db.GetRun(context.Background(), "does-not-exist")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("duplicate run id fails", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		run := createTestRun(time.Now())

		if err := db.SaveRun(ctx, run); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		if err := db.SaveRun(ctx, run); err == nil {
			t.Error("expected error for duplicate run id")
		}

		reports, err := db.GetRegionReports(ctx, run.ID)
		if err != nil {
			t.Fatalf("failed to get reports: %v", err)
		}
		if len(reports) != 2 {
			t.Errorf("expected failed save to leave 2 reports, got %d", len(reports))
		}
	})
}

// TestGetRegionReports tests reading back region reports.
func TestGetRegionReports(t *testing.T) {
	t.Parallel()

	t.Run("restores totals and per-year values in order", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		run := createTestRun(time.Now())

		if err := db.SaveRun(ctx, run); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		reports, err := db.GetRegionReports(ctx, run.ID)
		if err != nil {
			t.Fatalf("failed to get reports: %v", err)
		}
		if len(reports) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(reports))
		}
		if reports[0].Region != "Lazio" || reports[1].Region != "Umbria" {
			t.Errorf("unexpected order: %q, %q", reports[0].Region, reports[1].Region)
		}

		umbria := reports[1]
		if umbria.Total != 22 {
			t.Errorf("expected total 22, got %v", umbria.Total)
		}
		if umbria.Value(2005) != 7 {
			t.Errorf("expected 2005 value 7, got %v", umbria.Value(2005))
		}
		if umbria.YearCount() != 2 {
			t.Errorf("expected 2 years, got %d", umbria.YearCount())
		}
		if umbria.Average() != 11 {
			t.Errorf("expected average 11, got %v", umbria.Average())
		}
	})

	t.Run("preserves non-finite and exact values", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		r := model.NewRegionReport("Liguria")
		r.Add(2003, math.Inf(1))
		r.Add(2004, 0.1)
		run := model.NewRun("in.csv", "out.csv")
		run.Reports = []*model.RegionReport{r}

		if err := db.SaveRun(ctx, run); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		reports, err := db.GetRegionReports(ctx, run.ID)
		if err != nil {
			t.Fatalf("failed to get reports: %v", err)
		}
		if !math.IsInf(reports[0].Total, 1) {
			t.Errorf("expected +Inf total, got %v", reports[0].Total)
		}
		if reports[0].Value(2004) != 0.1 {
			t.Errorf("expected 0.1, got %v", reports[0].Value(2004))
		}
	})

	t.Run("unknown run has no reports", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		reports, err := db.GetRegionReports(context.Background(), "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != 0 {
			t.Errorf("expected no reports, got %d", len(reports))
		}
	})
}

// TestListRuns tests run listing order and limits.
func TestListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ids := make([]string, 0, 3)
	for i := range 3 {
		// Sub-second offsets check that ordering is by time, not by text
		run := createTestRun(base.Add(time.Duration(i) * 1500 * time.Millisecond))
		if err := db.SaveRun(ctx, run); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		ids = append(ids, run.ID)
	}

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		for i, run := range runs {
			if run.ID != ids[2-i] {
				t.Errorf("position %d: expected %s, got %s", i, ids[2-i], run.ID)
			}
		}
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].ID != ids[2] {
			t.Errorf("expected newest run first, got %s", runs[0].ID)
		}
	})
}

// TestParseTimestamp tests timestamp parsing fallbacks.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "fixed layout",
			input:    "2024-03-01 12:30:45.000000001",
			expected: time.Date(2024, 3, 1, 12, 30, 45, 1, time.UTC),
		},
		{
			name:     "sqlite default",
			input:    "2024-03-01 12:30:45",
			expected: time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC),
		},
		{
			name:     "iso with zone",
			input:    "2024-03-01T12:30:45Z",
			expected: time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC),
		},
		{
			name:     "garbage",
			input:    "yesterday",
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if !got.Equal(tt.expected) {
				t.Errorf("parseTimestamp(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}
