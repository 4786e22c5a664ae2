package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvelasco/metasim/pkg/mesh"
	"github.com/mvelasco/metasim/pkg/models"
	"github.com/mvelasco/metasim/pkg/solver"
)

func solvedField(t *testing.T, spec mesh.Spec, frequency float64, src solver.Source) (*mesh.Mesh, *solver.Field) {
	t.Helper()
	m, err := mesh.Build(spec)
	require.NoError(t, err)
	f, err := solver.Solve(m, frequency, src)
	require.NoError(t, err)
	return m, f
}

func TestRenderFieldProducesPNG(t *testing.T) {
	m, f := solvedField(t,
		mesh.Spec{Dimensionality: mesh.Dim2D, Length: 1, Width: 1, Resolution: []int{8, 8}},
		500, solver.Source{Position: []float64{0.5, 0.5}})

	data, err := NewRenderer().RenderField(m, f, 500)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
}

func TestRenderFieldNonSquareDomain(t *testing.T) {
	m, f := solvedField(t,
		mesh.Spec{Dimensionality: mesh.Dim2D, Length: 2, Width: 1, Resolution: []int{8, 4}},
		500, solver.Source{Position: []float64{1, 0.5}})

	data, err := NewRenderer().RenderField(m, f, 500)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestRenderHeatmapMidSliceOf3D(t *testing.T) {
	m, f := solvedField(t,
		mesh.Spec{Dimensionality: mesh.Dim3D, Length: 1, Width: 1, Height: 1, Resolution: []int{3, 3, 3}},
		700, solver.Source{Position: []float64{0.5, 0.5, 0.5}})

	data, err := NewRenderer().RenderHeatmap(m, f, 700,
		[]solver.Source{{Position: []float64{0.5, 0.5, 0.5}}})
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRenderFlatFieldDoesNotFail(t *testing.T) {
	// A constant field degenerates the colormap range unless it is widened.
	m, err := mesh.Build(mesh.Spec{Dimensionality: mesh.Dim2D, Length: 1, Width: 1, Resolution: []int{4, 4}})
	require.NoError(t, err)
	f := &solver.Field{Mesh: m, Values: make([]float64, m.NumNodes())}

	data, err := NewRenderer().RenderField(m, f, 500)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestArtifactKeys(t *testing.T) {
	assert.Equal(t, "sweeps/abc/simulation_result_500Hz.png", FieldArtifactKey("abc", 500))
	assert.Equal(t, "sweeps/abc/heatmap_result_433.3Hz.png", HeatmapArtifactKey("abc", 433.3))
}

func TestPlotAttenuation(t *testing.T) {
	results := []models.AttenuationResult{
		{Frequency: 200, AttenuationDB: 1.2},
		{Frequency: 600, AttenuationDB: 3.4},
		{Frequency: 1000, AttenuationDB: 2.1},
	}

	data, err := PlotAttenuation(results)
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestPlotAttenuationEmpty(t *testing.T) {
	data, err := PlotAttenuation(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
