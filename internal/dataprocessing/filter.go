package dataprocessing

import (
	"aetdeficit/pkg/contracts/domain"
)

// FilterStats summarizes one filter pass.
type FilterStats struct {
	Total   int
	Kept    int
	Dropped int
}

// FilterNonNegativeAET keeps the rows whose value in every listed AET column
// is zero or greater. Missing values fail the test. Deficit columns are not
// checked. The input table is left unchanged.
func FilterNonNegativeAET(table *domain.PointTable, aetColumns []string) (*domain.PointTable, FilterStats) {
	kept := table.Where(func(p domain.Point) bool {
		for _, col := range aetColumns {
			if !(p.Value(col) >= 0) {
				return false
			}
		}
		return true
	})

	stats := FilterStats{
		Total: table.Len(),
		Kept:  kept.Len(),
	}
	stats.Dropped = stats.Total - stats.Kept
	return kept, stats
}
