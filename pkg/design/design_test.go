package design

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvelasco/metasim/pkg/material"
)

func TestDesignSamplesTenFrequenciesLinearly(t *testing.T) {
	dims, err := DesignFor(200, 1000, "Silicone Rubber")
	require.NoError(t, err)
	require.Len(t, dims, NumSamples)

	assert.Equal(t, 200.0, dims[0].Frequency)
	assert.Equal(t, 1000.0, dims[len(dims)-1].Frequency)

	step := (1000.0 - 200.0) / float64(NumSamples-1)
	for i, d := range dims {
		assert.InDelta(t, 200+float64(i)*step, d.Frequency, 1e-9)
		if i > 0 {
			assert.Greater(t, d.Frequency, dims[i-1].Frequency)
		}
	}
}

func TestDesignVolumesPositiveAndDecreasing(t *testing.T) {
	dims, err := DesignFor(100, 2000, "Polyurethane")
	require.NoError(t, err)

	for i, d := range dims {
		assert.Greater(t, d.Volume, 0.0)
		assert.Equal(t, NeckArea, d.NeckArea)
		assert.Equal(t, NeckLength, d.NeckLength)
		if i > 0 {
			// V ∝ 1/f² with fixed neck geometry.
			assert.Less(t, d.Volume, dims[i-1].Volume)
		}
	}
}

func TestResonatorRelation(t *testing.T) {
	// At f = c/2π the wavenumber is 1, so V = A/L_eff.
	d := Resonator(SpeedOfSound / (2 * math.Pi))
	assert.InDelta(t, NeckArea/NeckLength, d.Volume, 1e-12)
}

func TestDesignUnknownMaterial(t *testing.T) {
	_, err := DesignFor(200, 1000, "Steel")
	require.Error(t, err)

	var unknown *material.UnknownError
	require.True(t, errors.As(err, &unknown))
	assert.Contains(t, err.Error(), "Silicone Rubber")
}

func TestDesignInvalidBand(t *testing.T) {
	mat, err := material.Lookup("Silicone Rubber")
	require.NoError(t, err)

	_, err = Design(0, 1000, mat)
	assert.Error(t, err)

	_, err = Design(-10, 1000, mat)
	assert.Error(t, err)

	_, err = Design(1000, 1000, mat)
	assert.Error(t, err)

	_, err = Design(1000, 200, mat)
	assert.Error(t, err)
}

func TestFrequencies(t *testing.T) {
	dims, err := DesignFor(200, 1000, "Silicone Rubber")
	require.NoError(t, err)

	freqs := Frequencies(dims)
	require.Len(t, freqs, len(dims))
	for i, d := range dims {
		assert.Equal(t, d.Frequency, freqs[i])
	}
}
