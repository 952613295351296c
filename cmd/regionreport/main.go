// Package main provides the entry point for the regionreport CLI.
//
// regionreport reads a semicolon separated file of yearly regional values,
// aggregates them per region and writes a summary CSV with the values for
// 2003 to 2007, the total and the average of every region.
//
// Usage:
//
//	regionreport run
//	regionreport run -i data.csv -o report.csv
//	regionreport history
//
// See --help for all available options.
package main

// main is the entry point for regionreport.
func main() {
	Execute()
}
