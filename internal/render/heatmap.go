// Package render turns solved fields into PNG heatmaps and attenuation
// curves into line charts.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/mvelasco/metasim/pkg/mesh"
	"github.com/mvelasco/metasim/pkg/solver"
)

const imageWidth = 512

// FieldArtifactKey names the per-frequency field rendering of a sweep.
func FieldArtifactKey(sweepID string, frequency float64) string {
	return fmt.Sprintf("sweeps/%s/simulation_result_%gHz.png", sweepID, frequency)
}

// HeatmapArtifactKey names the per-frequency intensity heatmap of a sweep.
func HeatmapArtifactKey(sweepID string, frequency float64) string {
	return fmt.Sprintf("sweeps/%s/heatmap_result_%gHz.png", sweepID, frequency)
}

// Renderer rasterizes nodal fields. 2D meshes render in the xy plane; 3D
// meshes render their mid-height z slice, since a raster image has no
// camera to orbit.
type Renderer struct{}

// NewRenderer creates a field renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// RenderField renders the field on a diverging blue-red colormap with cell
// edges overlaid.
func (r *Renderer) RenderField(m *mesh.Mesh, f *solver.Field, frequency float64) ([]byte, error) {
	img, err := r.rasterize(m, f, moreland.SmoothBlueRed(), true)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

// RenderHeatmap renders the field intensity on a perceptually uniform
// colormap with the source positions marked.
func (r *Renderer) RenderHeatmap(m *mesh.Mesh, f *solver.Field, frequency float64, sources []solver.Source) ([]byte, error) {
	img, err := r.rasterize(m, f, moreland.ExtendedKindlmann(), false)
	if err != nil {
		return nil, err
	}
	for _, src := range sources {
		r.markSource(img, m, src)
	}
	return encodePNG(img)
}

func (r *Renderer) rasterize(m *mesh.Mesh, f *solver.Field, cm palette.ColorMap, edges bool) (*image.NRGBA, error) {
	res, extent := m.Resolution(), m.Extent()
	nx, ny := res[0], res[1]
	lx, ly := extent[0], extent[1]

	// Node values on the rendered lattice. 3D meshes contribute their
	// middle z layer; node ordering is x fastest, then y, then z.
	layer := 0
	if m.Dim() == 3 {
		layer = (res[2] / 2) * (ny + 1) * (nx + 1)
	}
	nodeValue := func(i, j int) float64 {
		return f.Values[layer+j*(nx+1)+i]
	}

	lo, hi := nodeValue(0, 0), nodeValue(0, 0)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			v := nodeValue(i, j)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	cm.SetMin(lo)
	cm.SetMax(hi)

	height := int(float64(imageWidth) * ly / lx)
	if height < 2 {
		height = 2
	}
	img := image.NewNRGBA(image.Rect(0, 0, imageWidth, height))

	for py := 0; py < height; py++ {
		// Image y grows downward, domain y upward.
		y := ly * float64(height-1-py) / float64(height-1)
		cy := cellIndex(y, ly, ny)
		for px := 0; px < imageWidth; px++ {
			x := lx * float64(px) / float64(imageWidth-1)
			cx := cellIndex(x, lx, nx)

			// Bilinear interpolation on the structured node lattice.
			fx := x/lx*float64(nx) - float64(cx)
			fy := y/ly*float64(ny) - float64(cy)
			v := (1-fx)*(1-fy)*nodeValue(cx, cy) +
				fx*(1-fy)*nodeValue(cx+1, cy) +
				(1-fx)*fy*nodeValue(cx, cy+1) +
				fx*fy*nodeValue(cx+1, cy+1)

			c, err := cm.At(v)
			if err != nil {
				return nil, fmt.Errorf("colormap value %g: %w", v, err)
			}
			if edges && (fx < 0.04 || fy < 0.04) {
				c = dim(c)
			}
			img.Set(px, py, c)
		}
	}
	return img, nil
}

// markSource draws a red dot at the source's xy position.
func (r *Renderer) markSource(img *image.NRGBA, m *mesh.Mesh, src solver.Source) {
	extent := m.Extent()
	if len(src.Position) < 2 {
		return
	}
	b := img.Bounds()
	px := int(src.Position[0] / extent[0] * float64(b.Dx()-1))
	py := b.Dy() - 1 - int(src.Position[1]/extent[1]*float64(b.Dy()-1))

	red := color.NRGBA{R: 0xe5, G: 0x23, B: 0x23, A: 0xff}
	const radius = 4
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.Set(px+dx, py+dy, red)
			}
		}
	}
}

func cellIndex(x, side float64, cells int) int {
	c := int(x / side * float64(cells))
	if c >= cells {
		c = cells - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func dim(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 9), G: uint8(g >> 9), B: uint8(b >> 9), A: 0xff,
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
