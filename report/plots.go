// Package report renders run results: evaluation summaries as text or JSON and
// diagnostic plots as PNG files.
package report

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

const plotSize = 5 * vg.Inch

// ParityPlot writes a predicted-versus-actual scatter with the identity line.
func ParityPlot(path, title string, actual, predicted []float64) error {
	if len(actual) != len(predicted) {
		return errors.NewDimensionError("ParityPlot", len(actual), len(predicted), 0)
	}
	if len(actual) == 0 {
		return errors.NewValueError("ParityPlot", "no points to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "actual"
	p.Y.Label.Text = "predicted"

	pts := make(plotter.XYs, len(actual))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range actual {
		pts[i].X, pts[i].Y = actual[i], predicted[i]
		lo = math.Min(lo, math.Min(actual[i], predicted[i]))
		hi = math.Max(hi, math.Max(actual[i], predicted[i]))
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "parity scatter")
	}
	s.GlyphStyle.Color = color.RGBA{R: 20, G: 80, B: 200, A: 200}
	s.GlyphStyle.Radius = vg.Points(2)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)

	ident, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "identity line")
	}
	ident.Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	ident.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(ident, plotter.NewGrid())

	return save(p, path)
}

// ExplainedVariancePlot writes per-component variance ratios as bars with the
// cumulative ratio as a line.
func ExplainedVariancePlot(path string, ratios []float64) error {
	if len(ratios) == 0 {
		return errors.NewValueError("ExplainedVariancePlot", "no components to plot")
	}

	p := plot.New()
	p.Title.Text = "PCA explained variance"
	p.X.Label.Text = "component"
	p.Y.Label.Text = "variance ratio"
	p.Y.Min, p.Y.Max = 0, 1

	bars, err := plotter.NewBarChart(plotter.Values(ratios), vg.Points(12))
	if err != nil {
		return errors.Wrap(err, "variance bars")
	}
	bars.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.Legend.Add("component", bars)

	cum := make(plotter.XYs, len(ratios))
	total := 0.0
	for i, r := range ratios {
		total += r
		cum[i].X, cum[i].Y = float64(i), total
	}
	line, points, err := plotter.NewLinePoints(cum)
	if err != nil {
		return errors.Wrap(err, "cumulative line")
	}
	line.Color = color.RGBA{R: 20, G: 80, B: 200, A: 255}
	points.GlyphStyle.Color = line.Color
	p.Add(line, points)
	p.Legend.Add("cumulative", line, points)
	p.Legend.Top = true

	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(plotSize, plotSize, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
