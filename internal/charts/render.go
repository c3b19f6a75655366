package charts

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "aetdeficit/internal/errors"
)

// MarkerRadius converts a marker area in points squared to a circle radius.
func MarkerRadius(area float64) vg.Length {
	return vg.Points(math.Sqrt(area) / 2)
}

// Render draws fig as a gonum plot. Layers with no plottable points are
// left out of the plot and the legend; a figure without any points still
// renders with its title and axes.
func Render(fig Figure) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel
	p.Legend.Top = true

	legendStarted := false
	for _, l := range fig.Layers {
		if len(l.XYs) == 0 {
			continue
		}

		scatter, err := plotter.NewScatter(l.XYs)
		if err != nil {
			return nil, apperrors.NewRenderError(fmt.Sprintf("scatter layer %s", l.Source), err).
				WithContext("job", fig.Job.Key())
		}

		c, err := colorful.Hex(l.Style.Color)
		if err != nil {
			return nil, apperrors.NewRenderError(fmt.Sprintf("color for source %s", l.Source), err).
				WithContext("job", fig.Job.Key())
		}

		scatter.GlyphStyle.Color = c
		scatter.GlyphStyle.Radius = MarkerRadius(l.Style.Size)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)

		if !legendStarted {
			p.Legend.Add(LegendTitle)
			legendStarted = true
		}
		p.Legend.Add(l.Source, scatter)
	}

	return p, nil
}
