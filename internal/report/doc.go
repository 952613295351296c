// Package report renders aggregated region reports.
//
// This package contains writers for different output formats:
//   - CSVWriter: the semicolon separated summary consumed downstream
//   - MarkdownWriter: a human readable summary for sharing
//   - JSONWriter: structured output for tool integration
//   - XLSXWriter: a spreadsheet with numeric cells
//
// Design decision: Writers take the whole model.Run rather than only the
// region reports so that summary formats can describe the run (input path,
// record counts, skipped lines) without a second data structure. The CSV
// format only looks at Run.Reports and stays byte-for-byte stable.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably with WriteFile.
package report
