package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvelasco/metasim/pkg/mesh"
)

func unitSquare(t *testing.T, cells int) *mesh.Mesh {
	t.Helper()
	m, err := mesh.Build(mesh.Spec{
		Dimensionality: mesh.Dim2D,
		Length:         1,
		Width:          1,
		Resolution:     []int{cells, cells},
	})
	require.NoError(t, err)
	return m
}

func TestWavenumber(t *testing.T) {
	assert.InDelta(t, 2*math.Pi, Wavenumber(SpeedOfSound), 1e-12)
}

func TestSolvePointSourceProducesField(t *testing.T) {
	m := unitSquare(t, 8)

	field, err := Solve(m, 500, Source{Position: []float64{0.5, 0.5}})
	require.NoError(t, err)
	require.Len(t, field.Values, m.NumNodes())
	assert.Same(t, m, field.Mesh)

	var energy float64
	for _, v := range field.Values {
		energy += math.Abs(v)
	}
	assert.Greater(t, energy, 0.0)
}

func TestSolve3D(t *testing.T) {
	m, err := mesh.Build(mesh.Spec{
		Dimensionality: mesh.Dim3D,
		Length:         1, Width: 1, Height: 1,
		Resolution: []int{3, 3, 3},
	})
	require.NoError(t, err)

	field, err := Solve(m, 700, Source{Position: []float64{0.5, 0.5, 0.5}})
	require.NoError(t, err)
	assert.Len(t, field.Values, m.NumNodes())
}

func TestSolveSingularSystem(t *testing.T) {
	// At zero frequency the system degenerates to the pure Neumann
	// stiffness matrix, whose constant nullspace makes the factorization
	// fail.
	m := unitSquare(t, 8)

	_, err := Solve(m, 0, Source{Position: []float64{0.5, 0.5}})
	require.Error(t, err)

	var failure *SolveFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, 0.0, failure.Frequency)
	assert.Error(t, errors.Unwrap(err))
}

func TestSolveFailureMessage(t *testing.T) {
	err := &SolveFailure{Frequency: 440, Err: errors.New("matrix singular")}
	assert.Contains(t, err.Error(), "440")
	assert.Contains(t, err.Error(), "matrix singular")
}

func TestSolveDeterministic(t *testing.T) {
	m := unitSquare(t, 6)
	src := Source{Position: []float64{0.25, 0.75}}

	a, err := Solve(m, 800, src)
	require.NoError(t, err)
	b, err := Solve(m, 800, src)
	require.NoError(t, err)

	assert.Equal(t, a.Values, b.Values)
}
