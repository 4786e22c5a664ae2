package simulation

import (
	"context"
	"fmt"

	"github.com/mvelasco/metasim/internal/render"
	"github.com/mvelasco/metasim/internal/storage"
	"github.com/mvelasco/metasim/pkg/mesh"
	"github.com/mvelasco/metasim/pkg/solver"
)

// ArtifactVisualizer renders each solved field and persists the PNGs under
// the sweep's artifact prefix. Offscreen is an explicit construction-time
// flag; when false the visualizer is a no-op, since interactive display is
// handled outside this service.
type ArtifactVisualizer struct {
	Renderer  *render.Renderer
	Store     storage.ArtifactStore
	SweepID   string
	Offscreen bool
}

func (v *ArtifactVisualizer) FieldSolved(ctx context.Context, m *mesh.Mesh, field *solver.Field, frequency float64, sources []solver.Source) error {
	if !v.Offscreen {
		return nil
	}

	data, err := v.Renderer.RenderField(m, field, frequency)
	if err != nil {
		return fmt.Errorf("render field: %w", err)
	}
	if err := v.Store.Put(ctx, render.FieldArtifactKey(v.SweepID, frequency), "image/png", data); err != nil {
		return fmt.Errorf("store field rendering: %w", err)
	}

	data, err = v.Renderer.RenderHeatmap(m, field, frequency, sources)
	if err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}
	if err := v.Store.Put(ctx, render.HeatmapArtifactKey(v.SweepID, frequency), "image/png", data); err != nil {
		return fmt.Errorf("store heatmap: %w", err)
	}
	return nil
}
