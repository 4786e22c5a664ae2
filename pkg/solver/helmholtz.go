// Package solver assembles and solves the frequency-domain acoustic wave
// equation ∇²u + k²u = f over a simplicial mesh with first-order nodal
// elements, and reduces solved fields to attenuation values.
package solver

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/mvelasco/metasim/pkg/mesh"
)

// SpeedOfSound is the propagation speed in the simulated medium, m/s.
const SpeedOfSound = 343.0

// Source is a point excitation. Position has 2 or 3 components to match
// the mesh.
type Source struct {
	Position []float64 `json:"position"`
}

// SolveFailure reports a linear system that could not be factorized or
// solved. It is fatal for the sweep that triggered it.
type SolveFailure struct {
	Frequency float64
	Err       error
}

func (e *SolveFailure) Error() string {
	return fmt.Sprintf("helmholtz solve failed at %g Hz: %v", e.Frequency, e.Err)
}

func (e *SolveFailure) Unwrap() error { return e.Err }

// Field is the real part of the nodal solution of one solve. It is bound
// to the mesh it was solved on and never reused across frequencies.
type Field struct {
	Mesh   *mesh.Mesh
	Values []float64
}

// Wavenumber returns k = 2πf/c.
func Wavenumber(frequency float64) float64 {
	return 2 * math.Pi * frequency / SpeedOfSound
}

// Solve discretizes a(u,v) = ∫∇u·∇v − k²∫uv with P1 elements, applies the
// source as a unit point load at its nearest node, and solves the system
// with a direct dense LU factorization. There is no iterative fallback: a
// singular or ill-conditioned system surfaces as *SolveFailure.
func Solve(m *mesh.Mesh, frequency float64, src Source) (*Field, error) {
	k := Wavenumber(frequency)
	n := m.NumNodes()

	A := assemble(m, k)
	dense := mat.DenseCopyOf(A.ToCSR())

	b := mat.NewVecDense(n, nil)
	b.SetVec(m.NearestNode(src.Position), 1)

	var lu mat.LU
	lu.Factorize(dense)
	x := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(x, false, b); err != nil {
		return nil, &SolveFailure{Frequency: frequency, Err: err}
	}

	return &Field{Mesh: m, Values: x.RawVector().Data}, nil
}

// assemble builds A = K − k²M in a sparse DOK, accumulating per-element
// stiffness and mass contributions.
func assemble(m *mesh.Mesh, k float64) *sparse.DOK {
	n := m.NumNodes()
	A := sparse.NewDOK(n, n)
	nv := m.Dim() + 1
	Ke := make([][]float64, nv)
	for i := range Ke {
		Ke[i] = make([]float64, nv)
	}

	for e := 0; e < m.NumElements(); e++ {
		nodes := m.Element(e)
		measure := m.ElementMeasure(e)
		elementStiffness(m, nodes, measure, Ke)

		// Consistent P1 mass matrix: measure/((d+1)(d+2)) · (1+δij).
		mScale := measure / float64((nv)*(nv+1))
		for i := 0; i < nv; i++ {
			for j := 0; j < nv; j++ {
				mass := mScale
				if i == j {
					mass *= 2
				}
				r, c := nodes[i], nodes[j]
				A.Set(r, c, A.At(r, c)+Ke[i][j]-k*k*mass)
			}
		}
	}
	return A
}

// elementStiffness fills Ke with ∫∇λi·∇λj over one simplex. The basis
// gradients are constant, so the integral is measure·(∇λi·∇λj).
func elementStiffness(m *mesh.Mesh, nodes []int, measure float64, Ke [][]float64) {
	dim := m.Dim()
	grads := basisGradients(m, nodes, dim)
	for i := range Ke {
		for j := range Ke[i] {
			var dot float64
			for a := 0; a < dim; a++ {
				dot += grads[i][a] * grads[j][a]
			}
			Ke[i][j] = measure * dot
		}
	}
}

// basisGradients returns ∇λi for each vertex of a simplex. The gradients
// of λ1..λd are the rows of the inverse edge matrix; λ0 closes the
// partition of unity.
func basisGradients(m *mesh.Mesh, nodes []int, dim int) [][]float64 {
	p0 := m.Node(nodes[0])
	edges := mat.NewDense(dim, dim, nil)
	for i := 1; i <= dim; i++ {
		pi := m.Node(nodes[i])
		for a := 0; a < dim; a++ {
			edges.Set(i-1, a, pi[a]-p0[a])
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(edges); err != nil {
		// Degenerate simplices cannot occur on a structured grid with
		// validated positive extents and resolutions.
		panic(fmt.Sprintf("solver: degenerate element %v: %v", nodes, err))
	}

	grads := make([][]float64, dim+1)
	grads[0] = make([]float64, dim)
	for i := 1; i <= dim; i++ {
		grads[i] = make([]float64, dim)
		for a := 0; a < dim; a++ {
			g := inv.At(a, i-1)
			grads[i][a] = g
			grads[0][a] -= g
		}
	}
	return grads
}
