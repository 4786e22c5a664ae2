package simulation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mvelasco/metasim/internal/render"
	"github.com/mvelasco/metasim/internal/repository"
	"github.com/mvelasco/metasim/internal/storage"
	"github.com/mvelasco/metasim/pkg/design"
	"github.com/mvelasco/metasim/pkg/mesh"
	"github.com/mvelasco/metasim/pkg/models"
	"github.com/mvelasco/metasim/pkg/solver"
)

// SweepService processes persisted sweeps in the background.
type SweepService interface {
	ProcessSweep(ctx context.Context, sweepID uuid.UUID) error
}

type sweepService struct {
	repo      repository.SweepRepository
	artifacts storage.ArtifactStore
	renderer  *render.Renderer
	offscreen bool
}

// NewSweepService wires the sweep processor. offscreen controls whether
// per-frequency renderings are persisted to the artifact store.
func NewSweepService(repo repository.SweepRepository, artifacts storage.ArtifactStore, renderer *render.Renderer, offscreen bool) SweepService {
	return &sweepService{
		repo:      repo,
		artifacts: artifacts,
		renderer:  renderer,
		offscreen: offscreen,
	}
}

// ProcessSweep runs one sweep end to end: resolve the frequency list
// (explicit or designed from a band), build the mesh, solve every
// frequency, store the curve. Progress milestones are written through the
// repository; any pipeline failure is recorded and aborts the sweep with
// no partial results.
func (s *sweepService) ProcessSweep(ctx context.Context, sweepID uuid.UUID) error {
	if err := s.repo.UpdateStatus(ctx, sweepID, models.StatusProcessing, 10); err != nil {
		return err
	}

	sweep, err := s.repo.GetByID(ctx, sweepID)
	if err != nil {
		return err
	}
	req := sweep.Request

	freqs := req.Frequencies
	if len(freqs) == 0 {
		dims, err := design.DesignFor(req.FreqMin, req.FreqMax, req.Material)
		if err != nil {
			return s.fail(ctx, sweepID, err)
		}
		freqs = design.Frequencies(dims)
	}

	if err := s.repo.UpdateStatus(ctx, sweepID, models.StatusProcessing, 20); err != nil {
		return err
	}

	spec := defaultedSpec(req.Mesh)
	m, err := mesh.Build(spec)
	if err != nil {
		return s.fail(ctx, sweepID, err)
	}

	sources := req.Sources
	if len(sources) == 0 {
		sources = []solver.Source{{Position: domainCenter(m)}}
	}

	runner := &Runner{
		Viz: &ArtifactVisualizer{
			Renderer:  s.renderer,
			Store:     s.artifacts,
			SweepID:   sweepID.String(),
			Offscreen: s.offscreen,
		},
		Progress: func(done, total int) {
			progress := 20 + 70*done/total
			if err := s.repo.UpdateStatus(ctx, sweepID, models.StatusProcessing, progress); err != nil {
				log.Warn().Err(err).Str("sweepID", sweepID.String()).Msg("Progress update failed")
			}
		},
	}

	results, err := runner.RunOnMesh(ctx, m, freqs, sources)
	if err != nil {
		return s.fail(ctx, sweepID, err)
	}

	if err := s.repo.StoreResults(ctx, sweepID, results); err != nil {
		return s.fail(ctx, sweepID, fmt.Errorf("store results: %w", err))
	}

	// The attenuation chart is an artifact like the heatmaps: losing it
	// never fails a completed sweep.
	if s.offscreen {
		if png, err := render.PlotAttenuation(results); err != nil {
			log.Warn().Err(err).Str("sweepID", sweepID.String()).Msg("Attenuation plot failed")
		} else {
			key := fmt.Sprintf("sweeps/%s/attenuation.png", sweepID)
			if err := s.artifacts.Put(ctx, key, "image/png", png); err != nil {
				log.Warn().Err(err).Str("sweepID", sweepID.String()).Msg("Attenuation plot upload failed")
			}
		}
	}

	return s.repo.UpdateStatus(ctx, sweepID, models.StatusCompleted, 100)
}

func (s *sweepService) fail(ctx context.Context, sweepID uuid.UUID, cause error) error {
	if err := s.repo.UpdateError(ctx, sweepID, cause.Error()); err != nil {
		log.Error().Err(err).Str("sweepID", sweepID.String()).Msg("Failed to record sweep error")
	}
	return cause
}

// defaultedSpec fills in the unit-square default used when a sweep request
// omits the mesh.
func defaultedSpec(spec *mesh.Spec) mesh.Spec {
	if spec != nil {
		return *spec
	}
	return mesh.Spec{Dimensionality: mesh.Dim2D, Length: 1.0, Width: 1.0}
}

func domainCenter(m *mesh.Mesh) []float64 {
	extent := m.Extent()
	center := make([]float64, len(extent))
	for i, side := range extent {
		center[i] = side / 2
	}
	return center
}
