// Package database provides SQLite-based storage for regionreport.
//
// This package implements the HistoryDB, which stores:
//   - One row per pipeline run with its paths and counts
//   - The region reports each run produced, in report order
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
//
// Totals and per-year values are stored as decimal text rather than REAL
// columns. SQLite turns NaN into NULL, and the report must read back
// exactly what was written.
package database
