// Package operations drives a report run.
//
// A run is a single sequential pipeline:
//
//   - setup: create the output and workspace directories and open the run log
//   - load: read the input table and drop rows with a negative AET value
//   - render: build, render and export one figure per vegetation type and
//     time period, vegetation outer and period inner
//   - manifest: record the outcome of every plot job as CSV
//
// Failures that end the run are reported as *PipelineError. The failure of a
// single plot is an *ItemError; whether it ends the run depends on the
// FailurePolicy.
package operations
