package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"aetdeficit/internal/operations"
)

// printSummary writes one row per attempted plot followed by the run totals.
func printSummary(w io.Writer, report *operations.Report) {
	if report == nil || len(report.Results) == 0 {
		fmt.Fprintln(w, "No plots were attempted.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"VegType", "Time Period", "Primary", "Other", "Status", "Error"})
	for _, res := range report.Results {
		t.AppendRow(table.Row{
			res.Job.Vegetation.Code,
			res.Job.Period.Label,
			res.PrimaryPoints,
			res.OtherPoints,
			res.Status,
			res.ErrorMessage(),
		})
	}
	t.AppendFooter(table.Row{
		"Total",
		fmt.Sprintf("%d rows kept, %d dropped", report.Filter.Kept, report.Filter.Dropped),
		"",
		"",
		fmt.Sprintf("%d/%d", report.Succeeded(), len(report.Results)),
		"",
	})
	t.Render()
}
