package exporter

import (
	"strconv"

	"aetdeficit/pkg/contracts/domain"
)

// ManifestHeaders are the columns of the run manifest.
var ManifestHeaders = []string{
	"VegType", "VegName", "TimePeriod", "PrimaryPoints", "OtherPoints", "Status", "Path", "Error",
}

// WriteManifest writes one row per plot result to path, replacing the
// manifest of any earlier run of the same day.
func (w *CSVWriter) WriteManifest(path string, results []domain.PlotResult) error {
	records := make([][]string, 0, len(results))
	for _, r := range results {
		records = append(records, []string{
			r.Job.Vegetation.Code,
			r.Job.Vegetation.Name,
			r.Job.Period.Label,
			strconv.Itoa(r.PrimaryPoints),
			strconv.Itoa(r.OtherPoints),
			string(r.Status),
			r.Path,
			r.ErrorMessage(),
		})
	}
	return w.WriteSimpleCSV(path, ManifestHeaders, records)
}
