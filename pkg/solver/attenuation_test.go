package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvelasco/metasim/pkg/mesh"
)

func constantField(t *testing.T, value float64) *Field {
	t.Helper()
	m, err := mesh.Build(mesh.Spec{
		Dimensionality: mesh.Dim2D,
		Length:         1,
		Width:          1,
		Resolution:     []int{2, 2},
	})
	require.NoError(t, err)

	values := make([]float64, m.NumNodes())
	for i := range values {
		values[i] = value
	}
	return &Field{Mesh: m, Values: values}
}

func TestAttenuationEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Attenuation(nil))
	assert.Equal(t, 0.0, Attenuation([]*Field{}))
}

func TestIntegralAbsOfConstantField(t *testing.T) {
	// ∫|1| over the unit square is the domain area.
	f := constantField(t, 1)
	assert.InDelta(t, 1.0, f.IntegralAbs(), 1e-9)

	f = constantField(t, -2)
	assert.InDelta(t, 2.0, f.IntegralAbs(), 1e-9)
}

func TestAttenuationOfConstantField(t *testing.T) {
	f := constantField(t, 1)
	assert.InDelta(t, 20*math.Log10(2), Attenuation([]*Field{f}), 1e-9)
}

func TestAttenuationSumsAcrossFields(t *testing.T) {
	a, b := constantField(t, 1), constantField(t, 1)
	assert.InDelta(t, 20*math.Log10(3), Attenuation([]*Field{a, b}), 1e-9)
}

func TestAttenuationCompressesLogarithmically(t *testing.T) {
	x := Attenuation([]*Field{constantField(t, 1)})
	doubled := Attenuation([]*Field{constantField(t, 2)})

	assert.Greater(t, doubled, x)
	assert.Less(t, doubled, 2*x)
}
