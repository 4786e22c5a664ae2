package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/mvelasco/metasim/pkg/models"
)

// SweepRepository defines the interface for sweep data operations
type SweepRepository interface {
	Create(ctx context.Context, sweep *models.Sweep) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sweep, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreResults(ctx context.Context, id uuid.UUID, results []models.AttenuationResult) error
	GetResults(ctx context.Context, id uuid.UUID) ([]models.AttenuationResult, error)
}
