// Package loader reads the semicolon-delimited measurement file into records.
//
// The input format is line oriented:
//
//	Anno;Regione;Valore
//	2003;Lazio;12,5
//	2004;Lazio;13,75;ignored
//
// The first line is a header and is skipped without validation. Each data
// line is split on ';'. Lines with fewer than three fields are dropped
// silently; lines with three or more fields must carry an integer year and a
// decimal-comma value, otherwise the whole load fails.
//
// Design decision: We split lines with strings.Split instead of encoding/csv.
// The file has no quoting rules, and encoding/csv would interpret '"' and
// enforce a constant field count, both of which change which lines are
// accepted.
package loader
