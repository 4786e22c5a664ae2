package render

import (
	"bytes"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mvelasco/metasim/pkg/models"
)

// PlotAttenuation renders the attenuation curve as a PNG line chart,
// frequency on x, attenuation on y.
func PlotAttenuation(results []models.AttenuationResult) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Attenuation vs Frequency"
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Attenuation (dB)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(results))
	for i, res := range results {
		pts[i].X = res.Frequency
		pts[i].Y = res.AttenuationDB
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	blue := color.NRGBA{R: 0x1f, G: 0x4f, B: 0xd7, A: 0xff}
	line.Color = blue
	points.Shape = draw.CircleGlyph{}
	points.Color = blue
	p.Add(line, points)

	wt, err := p.WriterTo(10*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
