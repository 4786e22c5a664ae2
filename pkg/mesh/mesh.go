// Package mesh builds structured simplicial discretizations of rectangular
// (2D) and box (3D) domains for the Helmholtz solver.
package mesh

import (
	"fmt"
	"math"
)

// Recognized dimensionality values.
const (
	Dim2D = "2D"
	Dim3D = "3D"
)

// Default cell resolutions when a Spec leaves Resolution empty.
var (
	DefaultResolution2D = []int{64, 64}
	DefaultResolution3D = []int{32, 32, 32}
)

// Spec declares the domain to discretize. Height is ignored for 2D.
type Spec struct {
	Dimensionality string  `json:"dimensionality"`
	Length         float64 `json:"length"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height,omitempty"`
	Resolution     []int   `json:"resolution,omitempty"`
}

// InvalidDimensionError reports a dimensionality outside {2D, 3D}.
type InvalidDimensionError struct {
	Dimensionality string
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("invalid dimension type %q: must be %q or %q",
		e.Dimensionality, Dim2D, Dim3D)
}

// Mesh is an immutable structured simplicial mesh. Nodes are ordered x
// fastest, then y, then z, so identical specs produce identical meshes.
type Mesh struct {
	dim     int
	res     []int
	extent  []float64
	coords  []float64 // NumNodes * dim, packed
	elems   []int     // NumElements * (dim+1) node indices
	weights []float64 // nodal quadrature weights, sum to the domain measure
}

// Build discretizes the domain described by spec. 2D domains span
// [0,0]-[Length,Width] with each grid cell split into 2 triangles; 3D
// domains span [0,0,0]-[Length,Width,Height] with each cell split into 6
// tetrahedra.
func Build(spec Spec) (*Mesh, error) {
	switch spec.Dimensionality {
	case Dim2D:
		return build(spec, 2, DefaultResolution2D)
	case Dim3D:
		return build(spec, 3, DefaultResolution3D)
	default:
		return nil, &InvalidDimensionError{Dimensionality: spec.Dimensionality}
	}
}

func build(spec Spec, dim int, defaultRes []int) (*Mesh, error) {
	extent := []float64{spec.Length, spec.Width, spec.Height}[:dim]
	for i, side := range extent {
		if side <= 0 {
			return nil, fmt.Errorf("mesh: domain side %d must be positive, got %g", i, side)
		}
	}

	res := spec.Resolution
	if len(res) == 0 {
		res = defaultRes
	}
	if len(res) != dim {
		return nil, fmt.Errorf("mesh: %s resolution needs %d entries, got %d",
			spec.Dimensionality, dim, len(res))
	}
	for i, n := range res {
		if n <= 0 {
			return nil, fmt.Errorf("mesh: resolution[%d] must be positive, got %d", i, n)
		}
	}

	m := &Mesh{
		dim:    dim,
		res:    append([]int(nil), res...),
		extent: append([]float64(nil), extent...),
	}
	if dim == 2 {
		m.buildRectangle()
	} else {
		m.buildBox()
	}
	m.computeWeights()
	return m, nil
}

func (m *Mesh) buildRectangle() {
	nx, ny := m.res[0], m.res[1]
	dx, dy := m.extent[0]/float64(nx), m.extent[1]/float64(ny)

	m.coords = make([]float64, 0, 2*(nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			m.coords = append(m.coords, float64(i)*dx, float64(j)*dy)
		}
	}

	node := func(i, j int) int { return j*(nx+1) + i }
	m.elems = make([]int, 0, 3*2*nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			n00, n10 := node(i, j), node(i+1, j)
			n01, n11 := node(i, j+1), node(i+1, j+1)
			m.elems = append(m.elems,
				n00, n10, n11,
				n00, n11, n01)
		}
	}
}

// kuhnPaths are the 6 monotone vertex paths through a unit cube, one tet
// per path. Each row lists the axis flipped on at each step.
var kuhnPaths = [6][3]int{
	{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
}

func (m *Mesh) buildBox() {
	nx, ny, nz := m.res[0], m.res[1], m.res[2]
	dx := m.extent[0] / float64(nx)
	dy := m.extent[1] / float64(ny)
	dz := m.extent[2] / float64(nz)

	m.coords = make([]float64, 0, 3*(nx+1)*(ny+1)*(nz+1))
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				m.coords = append(m.coords, float64(i)*dx, float64(j)*dy, float64(k)*dz)
			}
		}
	}

	node := func(i, j, k int) int { return (k*(ny+1)+j)*(nx+1) + i }
	m.elems = make([]int, 0, 4*6*nx*ny*nz)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				for _, path := range kuhnPaths {
					c := [3]int{i, j, k}
					tet := [4]int{node(c[0], c[1], c[2])}
					for s, axis := range path {
						c[axis]++
						tet[s+1] = node(c[0], c[1], c[2])
					}
					m.elems = append(m.elems, tet[0], tet[1], tet[2], tet[3])
				}
			}
		}
	}
}

// computeWeights lumps each element's measure equally onto its vertices,
// giving the nodal quadrature used for domain integrals of P1 fields.
func (m *Mesh) computeWeights() {
	m.weights = make([]float64, m.NumNodes())
	nv := m.dim + 1
	for e := 0; e < m.NumElements(); e++ {
		share := m.ElementMeasure(e) / float64(nv)
		for _, n := range m.Element(e) {
			m.weights[n] += share
		}
	}
}

// Dim returns the number of spatial dimensions (2 or 3).
func (m *Mesh) Dim() int { return m.dim }

// NumNodes returns the node count.
func (m *Mesh) NumNodes() int { return len(m.coords) / m.dim }

// NumElements returns the simplex count.
func (m *Mesh) NumElements() int { return len(m.elems) / (m.dim + 1) }

// Node returns the coordinates of node i. The slice aliases mesh storage
// and must not be mutated.
func (m *Mesh) Node(i int) []float64 {
	return m.coords[i*m.dim : (i+1)*m.dim]
}

// Element returns the node indices of simplex e. The slice aliases mesh
// storage and must not be mutated.
func (m *Mesh) Element(e int) []int {
	nv := m.dim + 1
	return m.elems[e*nv : (e+1)*nv]
}

// ElementMeasure returns the area (2D) or volume (3D) of simplex e.
func (m *Mesh) ElementMeasure(e int) float64 {
	v := m.Element(e)
	a, b := m.Node(v[0]), m.Node(v[1])
	c := m.Node(v[2])
	if m.dim == 2 {
		return math.Abs((b[0]-a[0])*(c[1]-a[1])-(c[0]-a[0])*(b[1]-a[1])) / 2
	}
	d := m.Node(v[3])
	u := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	w := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	x := [3]float64{d[0] - a[0], d[1] - a[1], d[2] - a[2]}
	det := u[0]*(w[1]*x[2]-w[2]*x[1]) - u[1]*(w[0]*x[2]-w[2]*x[0]) + u[2]*(w[0]*x[1]-w[1]*x[0])
	return math.Abs(det) / 6
}

// QuadWeights returns the nodal quadrature weights. The slice aliases mesh
// storage and must not be mutated.
func (m *Mesh) QuadWeights() []float64 { return m.weights }

// Measure returns the total domain measure (area or volume).
func (m *Mesh) Measure() float64 {
	var total float64
	for _, w := range m.weights {
		total += w
	}
	return total
}

// Resolution returns the cell counts per axis.
func (m *Mesh) Resolution() []int { return append([]int(nil), m.res...) }

// Extent returns the domain side lengths per axis.
func (m *Mesh) Extent() []float64 { return append([]float64(nil), m.extent...) }

// NearestNode returns the index of the node closest to p. Components of p
// beyond the mesh dimension are ignored; missing components are treated
// as zero.
func (m *Mesh) NearestNode(p []float64) int {
	best, bestDist := 0, math.Inf(1)
	for i := 0; i < m.NumNodes(); i++ {
		var d2 float64
		for a, x := range m.Node(i) {
			var pa float64
			if a < len(p) {
				pa = p[a]
			}
			d2 += (x - pa) * (x - pa)
		}
		if d2 < bestDist {
			best, bestDist = i, d2
		}
	}
	return best
}
