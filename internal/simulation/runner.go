// Package simulation orchestrates the design→mesh→solve→reduce pipeline
// and runs persisted sweeps in the background.
package simulation

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mvelasco/metasim/pkg/mesh"
	"github.com/mvelasco/metasim/pkg/models"
	"github.com/mvelasco/metasim/pkg/solver"
)

// Visualizer receives each frequency's solved field. Implementations render
// or persist images; the pipeline never depends on their success.
type Visualizer interface {
	FieldSolved(ctx context.Context, m *mesh.Mesh, field *solver.Field, frequency float64, sources []solver.Source) error
}

// Runner drives one sweep: per frequency, one solve per source, then a
// single attenuation value. Frequencies and sources are processed strictly
// in the order given.
type Runner struct {
	// Viz, when set, is invoked once per frequency with the first source's
	// field. Failures are logged and ignored.
	Viz Visualizer

	// Progress, when set, is called after each completed frequency.
	Progress func(done, total int)
}

// Run builds the mesh from spec and sweeps the frequencies over it.
func (r *Runner) Run(ctx context.Context, spec mesh.Spec, freqs []float64, sources []solver.Source) ([]models.AttenuationResult, error) {
	m, err := mesh.Build(spec)
	if err != nil {
		return nil, err
	}
	return r.RunOnMesh(ctx, m, freqs, sources)
}

// RunOnMesh sweeps the frequencies over an existing mesh. The mesh is
// reused across frequencies (geometry does not change within a sweep); the
// assembled system depends on k, so each frequency solves fresh matrices.
// Any failure aborts the sweep with no partial results.
func (r *Runner) RunOnMesh(ctx context.Context, m *mesh.Mesh, freqs []float64, sources []solver.Source) ([]models.AttenuationResult, error) {
	results := make([]models.AttenuationResult, 0, len(freqs))
	for i, freq := range freqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields := make([]*solver.Field, 0, len(sources))
		for _, src := range sources {
			field, err := solver.Solve(m, freq, src)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
		}

		results = append(results, models.AttenuationResult{
			Frequency:     freq,
			AttenuationDB: solver.Attenuation(fields),
		})

		if r.Viz != nil && len(fields) > 0 {
			if err := r.Viz.FieldSolved(ctx, m, fields[0], freq, sources); err != nil {
				log.Warn().Err(err).Float64("frequency", freq).Msg("Visualization failed, continuing sweep")
			}
		}
		if r.Progress != nil {
			r.Progress(i+1, len(freqs))
		}
	}
	return results, nil
}
