// Package model defines the data structures shared by the regionreport stages.
//
// This package contains the following main types:
//   - Record: one parsed input observation (year, region, value)
//   - RegionReport: the per-region accumulator built by the aggregator
//   - Run: the state threaded through the pipeline for a single invocation
//
// Design decision: We keep the models in their own package so the loader,
// aggregator, writers and history database can share them without import
// cycles. None of these packages hold global state; every value here is
// created for one run and discarded afterwards.
package model
