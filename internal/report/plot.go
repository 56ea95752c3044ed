package report

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
	// maxBins caps the bar count for long-tailed distributions.
	maxBins = 50
)

// Plot builds a bar histogram with one bin per integer value, up to maxBins.
func (h *Histogram) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = h.Title
	p.X.Label.Text = h.ValueLabel
	p.Y.Label.Text = h.CountLabel
	if len(h.Buckets) == 0 {
		return p, nil
	}

	xys := make(plotter.XYs, len(h.Buckets))
	for i, b := range h.Buckets {
		xys[i].X = float64(b.Value)
		xys[i].Y = float64(b.Count)
	}
	span := h.Buckets[len(h.Buckets)-1].Value - h.Buckets[0].Value + 1
	bars, err := plotter.NewHistogram(xys, min(span, maxBins))
	if err != nil {
		return nil, fmt.Errorf("binning %q: %w", h.Title, err)
	}
	p.Add(bars)
	return p, nil
}

// WritePNG renders the histogram as a PNG image.
func (h *Histogram) WritePNG(w io.Writer) error {
	p, err := h.Plot()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return fmt.Errorf("rendering %q: %w", h.Title, err)
	}
	_, err = wt.WriteTo(w)
	return err
}
