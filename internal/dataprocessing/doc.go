// Package dataprocessing loads monitoring-location tables and prepares them
// for graphing.
//
// # Loading
//
// LoadPoints reads an .xlsx workbook (first worksheet) or a .csv file. The
// header must name VegType, Source and every AET and Deficit column the
// report uses:
//
//	table, err := dataprocessing.LoadPoints("PCM_AETDeficit_20240530.csv", cfg.Report.NumericColumns())
//
// Blank cells and the usual NA markers load as NaN.
//
// # Filtering
//
// FilterNonNegativeAET drops rows with a negative or missing AET value in
// any period. It runs once per report, before any figure is built.
package dataprocessing
