package solver

import "math"

// IntegralAbs returns ∫|u| dΩ computed with the mesh's nodal quadrature.
func (f *Field) IntegralAbs() float64 {
	var total float64
	for i, w := range f.Mesh.QuadWeights() {
		total += w * math.Abs(f.Values[i])
	}
	return total
}

// Attenuation reduces the solved fields of one frequency to a single dB
// value: 20·log10(1 + Σ∫|u|). The +1 floors the result at 0 dB when no
// energy is present instead of -Inf; it is a numerical guard, not physics.
func Attenuation(fields []*Field) float64 {
	var s float64
	for _, f := range fields {
		s += f.IntegralAbs()
	}
	return 20 * math.Log10(1+s)
}
