// Package report renders fitted curves, data and confidence bands with
// gonum/plot, and formats classification error tables as text.
package report

import (
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

// Default figure size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var bandFill = color.RGBA{R: 70, G: 130, B: 180, A: 60}

// Figure is one chart. Layers are drawn in the order they are added.
type Figure struct {
	plot   *plot.Plot
	width  vg.Length
	height vg.Length
	series int
}

// NewFigure returns an empty figure with a title and axis labels.
func NewFigure(title, xLabel, yLabel string) *Figure {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return &Figure{plot: p, width: DefaultWidth, height: DefaultHeight}
}

// SetSize overrides the rendered size.
func (f *Figure) SetSize(width, height vg.Length) {
	f.width, f.height = width, height
}

func xys(op string, xs, ys []float64) (plotter.XYs, error) {
	if len(xs) != len(ys) {
		return nil, errors.NewDimensionError(op, len(xs), len(ys), 0)
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts, nil
}

func (f *Figure) nextColor() color.Color {
	c := plotutil.Color(f.series)
	f.series++
	return c
}

// AddPoints overlays a scatter of (x, y) observations.
func (f *Figure) AddPoints(label string, xs, ys []float64) error {
	pts, err := xys("report.AddPoints", xs, ys)
	if err != nil {
		return err
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "report.AddPoints")
	}
	s.Color = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	s.Radius = vg.Points(1.5)
	f.plot.Add(s)
	if label != "" {
		f.plot.Legend.Add(label, s)
	}
	return nil
}

// AddLine draws a curve through (x, y) in the next palette color. xs should
// be sorted.
func (f *Figure) AddLine(label string, xs, ys []float64) error {
	pts, err := xys("report.AddLine", xs, ys)
	if err != nil {
		return err
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "report.AddLine")
	}
	l.Color = f.nextColor()
	l.LineStyle.Width = vg.Points(1.5)
	f.plot.Add(l)
	if label != "" {
		f.plot.Legend.Add(label, l)
	}
	return nil
}

// AddBand shades the region between lower and upper.
func (f *Figure) AddBand(label string, xs, lower, upper []float64) error {
	if len(lower) != len(xs) || len(upper) != len(xs) {
		return errors.NewDimensionError("report.AddBand", len(xs), min(len(lower), len(upper)), 0)
	}
	pts := make(plotter.XYs, 0, 2*len(xs))
	for i := range xs {
		pts = append(pts, plotter.XY{X: xs[i], Y: upper[i]})
	}
	for i := len(xs) - 1; i >= 0; i-- {
		pts = append(pts, plotter.XY{X: xs[i], Y: lower[i]})
	}
	poly, err := plotter.NewPolygon(pts)
	if err != nil {
		return errors.Wrap(err, "report.AddBand")
	}
	poly.Color = bandFill
	poly.LineStyle.Width = 0
	f.plot.Add(poly)
	if label != "" {
		f.plot.Legend.Add(label, poly)
	}
	return nil
}

// AddCurves draws many thin curves, one per row of ys, such as bootstrap
// replicates or posterior draws.
func (f *Figure) AddCurves(label string, xs []float64, ys [][]float64) error {
	c := color.RGBA{R: 200, G: 60, B: 60, A: 80}
	for i, row := range ys {
		pts, err := xys("report.AddCurves", xs, row)
		if err != nil {
			return err
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrap(err, "report.AddCurves")
		}
		l.Color = c
		l.LineStyle.Width = vg.Points(0.5)
		f.plot.Add(l)
		if i == 0 && label != "" {
			f.plot.Legend.Add(label, l)
		}
	}
	return nil
}

// Save renders the figure; the format follows the file extension.
func (f *Figure) Save(path string) error {
	if err := f.plot.Save(f.width, f.height, path); err != nil {
		return errors.Wrapf(err, "report.Save %s", path)
	}
	return nil
}

// WriteTo renders the figure in the given format ("png", "svg", "pdf", ...).
func (f *Figure) WriteTo(w io.Writer, format string) (int64, error) {
	wt, err := f.plot.WriterTo(f.width, f.height, format)
	if err != nil {
		return 0, errors.Wrap(err, "report.WriteTo")
	}
	return wt.WriteTo(w)
}
