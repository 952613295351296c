// Package pipeline provides a framework for executing run steps in sequence.
//
// A run loads the input file, aggregates the records per region and writes
// the CSV report. Optional steps write the Markdown, JSON and XLSX outputs
// and store the run in the history database. Each stage is implemented as
// a Step that receives the current run and fills in its part.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows optional outputs to be added without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between steps
//
// The pipeline stops at the first failing step. Outputs written by earlier
// steps are left in place.
package pipeline
