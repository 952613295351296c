// Package aggregate folds loaded records into per-region reports.
package aggregate
