package charts

import (
	"math"

	"gonum.org/v1/plot/plotter"

	"aetdeficit/pkg/contracts/domain"
)

// Fixed figure text.
const (
	XAxisLabel  = "Avg. Total Annual Deficit (mm)"
	YAxisLabel  = "Avg. Total Annual AET (mm)"
	LegendTitle = "Source"
)

// Options controls how rows are split into layers and styled.
type Options struct {
	PrimarySource string
	FallbackStyle string
	Styles        map[string]domain.SourceStyle

	// Baseline, when set, supplies the AET and Deficit columns of the
	// primary layer for every period.
	Baseline *domain.TimePeriod
}

// StyleFor returns the marker style of source, falling back to the
// FallbackStyle entry for unknown sources.
func (o Options) StyleFor(source string) domain.SourceStyle {
	if s, ok := o.Styles[source]; ok {
		return s
	}
	return o.Styles[o.FallbackStyle]
}

// Layer is one scatter series of a figure.
type Layer struct {
	Source  string
	Primary bool
	Style   domain.SourceStyle
	XYs     plotter.XYs
	// Rows counts the table rows assigned to the layer; Skipped counts
	// those without a finite x and y.
	Rows    int
	Skipped int
}

// Figure is the data behind one AET/Deficit scatter plot. Layers are in
// drawing order.
type Figure struct {
	Job    domain.PlotJob
	Title  string
	XLabel string
	YLabel string
	Layers []Layer
}

// Counts returns the number of primary and other rows in the figure.
func (f Figure) Counts() (primary, other int) {
	for _, l := range f.Layers {
		if l.Primary {
			primary += l.Rows
		} else {
			other += l.Rows
		}
	}
	return primary, other
}

// BuildFigure selects the rows of one vegetation type and lays them out for
// one period: every non-primary source gets its own layer, in the order the
// sources first appear, and the primary source is drawn last on top.
func BuildFigure(table *domain.PointTable, veg domain.VegetationType, period domain.TimePeriod, opts Options) Figure {
	fig := Figure{
		Job:    domain.PlotJob{Vegetation: veg, Period: period},
		Title:  veg.Name + " - " + period.Label,
		XLabel: XAxisLabel,
		YLabel: YAxisLabel,
	}

	primaryCols := period
	if opts.Baseline != nil {
		primaryCols = *opts.Baseline
	}

	primary := &Layer{Source: opts.PrimarySource, Primary: true, Style: opts.StyleFor(opts.PrimarySource)}
	byName := make(map[string]*Layer)
	var others []*Layer

	for _, p := range table.Points {
		if p.VegType != veg.Code {
			continue
		}

		if p.Source == opts.PrimarySource {
			addPoint(primary, p, primaryCols)
			continue
		}

		l, ok := byName[p.Source]
		if !ok {
			l = &Layer{Source: p.Source, Style: opts.StyleFor(p.Source)}
			byName[p.Source] = l
			others = append(others, l)
		}
		addPoint(l, p, period)
	}

	for _, l := range others {
		fig.Layers = append(fig.Layers, *l)
	}
	if primary.Rows > 0 {
		fig.Layers = append(fig.Layers, *primary)
	}
	return fig
}

func addPoint(l *Layer, p domain.Point, cols domain.TimePeriod) {
	l.Rows++
	x, y := p.Value(cols.DeficitColumn), p.Value(cols.AETColumn)
	if !finite(x) || !finite(y) {
		l.Skipped++
		return
	}
	l.XYs = append(l.XYs, plotter.XY{X: x, Y: y})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
