package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mvelasco/metasim/internal/repository"
	"github.com/mvelasco/metasim/internal/simulation"
	"github.com/mvelasco/metasim/pkg/material"
	"github.com/mvelasco/metasim/pkg/mesh"
	"github.com/mvelasco/metasim/pkg/models"
	"github.com/mvelasco/metasim/pkg/solver"
)

// SimulationHandler handles simulation and sweep HTTP requests
type SimulationHandler struct {
	repo   repository.SweepRepository
	sweeps simulation.SweepService
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(repo repository.SweepRepository, sweeps simulation.SweepService) *SimulationHandler {
	return &SimulationHandler{
		repo:   repo,
		sweeps: sweeps,
	}
}

// Simulate runs the pipeline synchronously over an explicit mesh,
// frequency list and source list, and returns the attenuation curve.
func (h *SimulationHandler) Simulate(ctx context.Context, req *models.SimulateRequest) (*models.SimulateResponse, error) {
	log.Info().
		Str("dimensionality", req.Body.Mesh.Dimensionality).
		Int("frequencies", len(req.Body.Frequencies)).
		Int("sources", len(req.Body.Sources)).
		Msg("Running synchronous simulation")

	runner := &simulation.Runner{}
	results, err := runner.Run(ctx, req.Body.Mesh, req.Body.Frequencies, req.Body.Sources)
	if err != nil {
		return nil, mapPipelineError(err)
	}

	resp := &models.SimulateResponse{}
	resp.Body.Results = results
	return resp, nil
}

// CreateSweep persists a sweep request and starts background processing
func (h *SimulationHandler) CreateSweep(ctx context.Context, req *models.CreateSweepRequest) (*models.CreateSweepResponse, error) {
	body := req.Body

	if len(body.Frequencies) == 0 {
		// Band mode: the designer samples the frequencies, so the band and
		// material must be present and valid before we accept the sweep.
		if body.FreqMin <= 0 || body.FreqMax <= body.FreqMin {
			return nil, huma.Error400BadRequest(
				fmt.Sprintf("invalid frequency band [%g, %g]", body.FreqMin, body.FreqMax), nil)
		}
		if _, err := material.Lookup(body.Material); err != nil {
			return nil, huma.Error400BadRequest(err.Error(), err)
		}
	}
	if body.Mesh != nil {
		d := body.Mesh.Dimensionality
		if d != mesh.Dim2D && d != mesh.Dim3D {
			err := &mesh.InvalidDimensionError{Dimensionality: d}
			return nil, huma.Error400BadRequest(err.Error(), err)
		}
	}

	sweepID := uuid.New()
	now := time.Now()
	sweep := &models.Sweep{
		ID:        sweepID.String(),
		Status:    models.StatusPending,
		Progress:  0,
		Request:   body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(ctx, sweep); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create sweep", err)
	}
	log.Info().Str("sweepID", sweep.ID).Msg("Sweep created, starting background processing")

	// Two rapid triggers run two independent sweeps; there is no dedup.
	go func() {
		if err := h.sweeps.ProcessSweep(context.Background(), sweepID); err != nil {
			log.Error().Err(err).Str("sweepID", sweep.ID).Msg("Sweep processing failed")
		}
	}()

	return &models.CreateSweepResponse{
		Body: models.CreateSweepResponseBody{
			ID:     sweep.ID,
			Status: sweep.Status,
		},
	}, nil
}

// GetSweepStatus returns the current status of a sweep
func (h *SimulationHandler) GetSweepStatus(ctx context.Context, req *models.GetSweepStatusRequest) (*models.GetSweepStatusResponse, error) {
	sweepID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid sweep ID", err)
	}

	sweep, err := h.repo.GetByID(ctx, sweepID)
	if err != nil {
		return nil, huma.Error404NotFound("Sweep not found", err)
	}

	return &models.GetSweepStatusResponse{
		Body: models.GetSweepStatusResponseBody{
			ID:       sweep.ID,
			Status:   sweep.Status,
			Progress: sweep.Progress,
			Message:  statusMessage(sweep),
		},
	}, nil
}

// GetSweepResults returns the completed attenuation curve
func (h *SimulationHandler) GetSweepResults(ctx context.Context, req *models.GetSweepResultsRequest) (*models.GetSweepResultsResponse, error) {
	sweepID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid sweep ID", err)
	}

	sweep, err := h.repo.GetByID(ctx, sweepID)
	if err != nil {
		return nil, huma.Error404NotFound("Sweep not found", err)
	}

	if sweep.Status != models.StatusCompleted {
		return nil, huma.Error409Conflict("Sweep not yet completed",
			fmt.Errorf("sweep status is %s", sweep.Status))
	}

	results, err := h.repo.GetResults(ctx, sweepID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get results", err)
	}

	return &models.GetSweepResultsResponse{
		Body: models.GetSweepResultsResponseBody{
			ID:        sweep.ID,
			Results:   results,
			CreatedAt: sweep.CreatedAt,
		},
	}, nil
}

// ListMaterials returns the closed material table
func (h *SimulationHandler) ListMaterials(ctx context.Context, _ *struct{}) (*models.ListMaterialsResponse, error) {
	resp := &models.ListMaterialsResponse{}
	for _, name := range material.Names() {
		mat, err := material.Lookup(name)
		if err != nil {
			return nil, huma.Error500InternalServerError("Material table inconsistent", err)
		}
		resp.Body.Materials = append(resp.Body.Materials, mat)
	}
	return resp, nil
}

// mapPipelineError translates core pipeline errors to HTTP responses:
// caller mistakes are 400s, solver failures are 500s.
func mapPipelineError(err error) error {
	var dimErr *mesh.InvalidDimensionError
	if errors.As(err, &dimErr) {
		return huma.Error400BadRequest(dimErr.Error(), err)
	}
	var matErr *material.UnknownError
	if errors.As(err, &matErr) {
		return huma.Error400BadRequest(matErr.Error(), err)
	}
	var solveErr *solver.SolveFailure
	if errors.As(err, &solveErr) {
		return huma.Error500InternalServerError("Simulation failed", err)
	}
	return huma.Error400BadRequest(err.Error(), err)
}

// statusMessage creates a human-readable status message
func statusMessage(sweep *models.Sweep) string {
	switch sweep.Status {
	case models.StatusPending:
		return "Sweep queued for processing..."
	case models.StatusProcessing:
		switch {
		case sweep.Progress < 20:
			return "Designing resonator geometry..."
		case sweep.Progress < 90:
			return "Solving acoustic field..."
		default:
			return "Finalizing results..."
		}
	case models.StatusCompleted:
		return "Sweep complete!"
	case models.StatusFailed:
		if sweep.ErrorMsg != nil {
			return *sweep.ErrorMsg
		}
		return "Sweep failed. Please try again."
	default:
		return "Unknown status"
	}
}
