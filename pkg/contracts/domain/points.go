package domain

import "math"

// Point represents a single monitoring-location observation with its
// water balance metrics. Values are keyed by the source column name; a
// blank or missing cell is stored as NaN.
type Point struct {
	VegType string             `json:"veg_type" validate:"required"`
	Source  string             `json:"source" validate:"required"`
	Values  map[string]float64 `json:"values"`
}

// Value returns the numeric value for column, or NaN when the column is absent.
func (p Point) Value(column string) float64 {
	v, ok := p.Values[column]
	if !ok {
		return math.NaN()
	}
	return v
}

// PointTable is the in-memory form of the input workbook or CSV.
// It is built once by the loader and treated as read-only afterwards.
type PointTable struct {
	Columns []string `json:"columns"`
	Points  []Point  `json:"points" validate:"dive"`
}

// Len returns the number of rows in the table.
func (t *PointTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Points)
}

// HasColumn reports whether the table header contains name.
func (t *PointTable) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Where returns a new table holding the rows for which keep returns true.
// The column list is shared with the receiver.
func (t *PointTable) Where(keep func(Point) bool) *PointTable {
	out := &PointTable{Columns: t.Columns, Points: make([]Point, 0, len(t.Points))}
	for _, p := range t.Points {
		if keep(p) {
			out.Points = append(out.Points, p)
		}
	}
	return out
}
