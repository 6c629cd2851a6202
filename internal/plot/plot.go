// Package plot renders the standard figures for a run as SVG bytes so
// the artifact store can persist them next to the draws.
package plot

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/lwerth/INFO510-public/internal/analysis"
)

const (
	figWidth  = 6 * vg.Inch
	figHeight = 4 * vg.Inch
)

var (
	fillBlue   = color.RGBA{R: 0x4c, G: 0x78, B: 0xa8, A: 0xff}
	lineOrange = color.RGBA{R: 0xf5, G: 0x8a, B: 0x18, A: 0xff}
)

// Histogram renders draws as a density-normalized histogram.
func Histogram(draws []float64, title, xLabel string) ([]byte, error) {
	if len(draws) == 0 {
		return nil, fmt.Errorf("no draws to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "density"

	h, err := plotter.NewHist(plotter.Values(draws), 40)
	if err != nil {
		return nil, fmt.Errorf("building histogram: %w", err)
	}
	h.Normalize(1)
	h.FillColor = fillBlue
	p.Add(h)

	return render(p)
}

// Heatmap renders a gridded posterior surface.
func Heatmap(g plotter.GridXYZ, title, xLabel, yLabel string) ([]byte, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewHeatMap(g, palette.Heat(32, 1)))
	return render(p)
}

// Shrinkage plots raw group proportions against their posterior
// medians, with the identity line showing how far each group moved.
func Shrinkage(raw, median []float64, title string) ([]byte, error) {
	if len(raw) == 0 || len(raw) != len(median) {
		return nil, fmt.Errorf("mismatched shrinkage inputs: %d raw, %d medians", len(raw), len(median))
	}

	pts := make(plotter.XYs, len(raw))
	lo, hi := raw[0], raw[0]
	for i := range raw {
		pts[i].X, pts[i].Y = raw[i], median[i]
		for _, v := range []float64{raw[i], median[i]} {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	pad := 0.05 * (hi - lo)
	lo, hi = lo-pad, hi+pad

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "raw proportion"
	p.Y.Label.Text = "posterior median"

	ident, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return nil, fmt.Errorf("building identity line: %w", err)
	}
	ident.Color = lineOrange

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("building scatter: %w", err)
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(3)
	sc.GlyphStyle.Color = fillBlue

	p.Add(ident, sc)
	return render(p)
}

// ForResult renders the figure set for one run, keyed by artifact name.
func ForResult(res *analysis.Result) (map[string][]byte, error) {
	out := map[string][]byte{}

	add := func(name string, svg []byte, err error) error {
		if err != nil {
			return fmt.Errorf("rendering %s: %w", name, err)
		}
		out[name] = svg
		return nil
	}

	switch res.Analysis {
	case "incumbency":
		svg, err := Histogram(column(res, "incumbency"), "Incumbency advantage", "share of the vote")
		if err := add("incumbency_hist.svg", svg, err); err != nil {
			return nil, err
		}

	case "bikes":
		svg, err := Histogram(column(res, "pop_mean"), "Population mean bicycle share", "proportion")
		if err := add("pop_mean_hist.svg", svg, err); err != nil {
			return nil, err
		}

		raw := make([]float64, len(res.Streets))
		medians := make([]float64, len(res.Streets))
		for i, st := range res.Streets {
			raw[i] = st.Proportion()
			s := res.Summary(fmt.Sprintf("theta[%s]", st.Street))
			if s == nil {
				return nil, fmt.Errorf("missing summary for street %q", st.Street)
			}
			medians[i] = s.Median
		}
		svg, err = Shrinkage(raw, medians, "Street proportions after pooling")
		if err := add("shrinkage.svg", svg, err); err != nil {
			return nil, err
		}

		if res.Surface != nil {
			svg, err = Heatmap(res.Surface, "Hyperparameter posterior", "log(alpha/beta)", "log(alpha+beta)")
			if err := add("hyperposterior.svg", svg, err); err != nil {
				return nil, err
			}
		}

	case "hoops":
		svg, err := Histogram(column(res, "pred"), "Posterior predictive for the next game", "points")
		if err := add("pred_hist.svg", svg, err); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func column(res *analysis.Result, name string) []float64 {
	for i, n := range res.Names {
		if n == name {
			return res.Columns[i]
		}
	}
	return nil
}

func render(p *plot.Plot) ([]byte, error) {
	w, err := p.WriterTo(figWidth, figHeight, "svg")
	if err != nil {
		return nil, fmt.Errorf("rendering svg: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing svg: %w", err)
	}
	return buf.Bytes(), nil
}
