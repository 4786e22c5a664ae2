// Package design sizes Helmholtz resonator cavities for a target
// frequency band.
package design

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mvelasco/metasim/pkg/material"
)

// Physical constants of the current resonator model. Neck geometry is fixed
// design data, not derived from the material (see DESIGN.md).
const (
	SpeedOfSound = 343.0 // propagation medium, m/s
	NeckArea     = 1e-4  // m^2
	NeckLength   = 0.05  // effective neck length, m

	// NumSamples is the number of frequencies a band is sampled into.
	NumSamples = 10
)

// Dimension is the resonator geometry tuned for one sampled frequency.
type Dimension struct {
	Frequency  float64 `json:"frequency"`
	Volume     float64 `json:"volume"`
	NeckArea   float64 `json:"neck_area"`
	NeckLength float64 `json:"neck_length"`
}

// Design samples NumSamples frequencies linearly across [freqMin, freqMax],
// endpoints included, and sizes one resonator cavity per frequency. The
// material must come from the property table; it anchors the design to a
// castable substrate even though the cavity relation itself only involves
// the propagation medium.
func Design(freqMin, freqMax float64, mat material.Material) ([]Dimension, error) {
	if freqMin <= 0 {
		return nil, fmt.Errorf("design: freq_min must be positive, got %g", freqMin)
	}
	if freqMax <= freqMin {
		return nil, fmt.Errorf("design: freq_max (%g) must exceed freq_min (%g)", freqMax, freqMin)
	}
	if _, err := material.Lookup(mat.Name); err != nil {
		return nil, err
	}

	freqs := floats.Span(make([]float64, NumSamples), freqMin, freqMax)
	dims := make([]Dimension, len(freqs))
	for i, f := range freqs {
		dims[i] = Resonator(f)
	}
	return dims, nil
}

// DesignFor is Design with the material looked up by name.
func DesignFor(freqMin, freqMax float64, materialName string) ([]Dimension, error) {
	mat, err := material.Lookup(materialName)
	if err != nil {
		return nil, err
	}
	return Design(freqMin, freqMax, mat)
}

// Resonator sizes the cavity volume that resonates at frequency f from the
// Helmholtz relation f = c/2π · sqrt(A / (V·L_eff)), solved for V.
func Resonator(f float64) Dimension {
	k := 2 * math.Pi * f / SpeedOfSound
	return Dimension{
		Frequency:  f,
		Volume:     NeckArea / (k * k * NeckLength),
		NeckArea:   NeckArea,
		NeckLength: NeckLength,
	}
}

// Frequencies extracts the sampled frequencies from a design.
func Frequencies(dims []Dimension) []float64 {
	freqs := make([]float64, len(dims))
	for i, d := range dims {
		freqs[i] = d.Frequency
	}
	return freqs
}
