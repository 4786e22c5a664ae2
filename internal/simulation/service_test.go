package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mvelasco/metasim/internal/render"
	"github.com/mvelasco/metasim/pkg/mesh"
	"github.com/mvelasco/metasim/pkg/models"
	"github.com/mvelasco/metasim/pkg/solver"
)

// MockSweepRepository implements repository.SweepRepository for testing
type MockSweepRepository struct {
	mock.Mock
}

func (m *MockSweepRepository) Create(ctx context.Context, sweep *models.Sweep) error {
	args := m.Called(ctx, sweep)
	return args.Error(0)
}

func (m *MockSweepRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sweep, error) {
	args := m.Called(ctx, id)
	if sweep := args.Get(0); sweep != nil {
		return sweep.(*models.Sweep), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSweepRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockSweepRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockSweepRepository) StoreResults(ctx context.Context, id uuid.UUID, results []models.AttenuationResult) error {
	args := m.Called(ctx, id, results)
	return args.Error(0)
}

func (m *MockSweepRepository) GetResults(ctx context.Context, id uuid.UUID) ([]models.AttenuationResult, error) {
	args := m.Called(ctx, id)
	if results := args.Get(0); results != nil {
		return results.([]models.AttenuationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockArtifactStore implements storage.ArtifactStore for testing
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Put(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockArtifactStore) PresignGet(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func bandSweep(id uuid.UUID) *models.Sweep {
	return &models.Sweep{
		ID:       id.String(),
		Status:   models.StatusPending,
		Progress: 0,
		Request: models.SweepRequest{
			FreqMin:  200,
			FreqMax:  1000,
			Material: "Silicone Rubber",
			Mesh: &mesh.Spec{
				Dimensionality: mesh.Dim2D,
				Length:         1,
				Width:          1,
				Resolution:     []int{8, 8},
			},
			Sources: []solver.Source{{Position: []float64{0.5, 0.5}}},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestProcessSweepBandMode(t *testing.T) {
	sweepID := uuid.New()
	repo := new(MockSweepRepository)
	store := new(MockArtifactStore)

	repo.On("UpdateStatus", mock.Anything, sweepID, models.StatusProcessing, mock.AnythingOfType("int")).Return(nil)
	repo.On("GetByID", mock.Anything, sweepID).Return(bandSweep(sweepID), nil)
	repo.On("StoreResults", mock.Anything, sweepID, mock.MatchedBy(func(results []models.AttenuationResult) bool {
		if len(results) != 10 {
			return false
		}
		return results[0].Frequency == 200 && results[9].Frequency == 1000
	})).Return(nil)
	repo.On("UpdateStatus", mock.Anything, sweepID, models.StatusCompleted, 100).Return(nil)
	store.On("Put", mock.Anything, mock.AnythingOfType("string"), "image/png", mock.Anything).Return(nil)

	svc := NewSweepService(repo, store, render.NewRenderer(), true)
	err := svc.ProcessSweep(context.Background(), sweepID)
	require.NoError(t, err)

	repo.AssertExpectations(t)
	// Two renderings per frequency plus the attenuation curve.
	store.AssertNumberOfCalls(t, "Put", 10*2+1)
}

func TestProcessSweepOffscreenDisabledSkipsArtifacts(t *testing.T) {
	sweepID := uuid.New()
	repo := new(MockSweepRepository)
	store := new(MockArtifactStore)

	repo.On("UpdateStatus", mock.Anything, sweepID, mock.AnythingOfType("string"), mock.AnythingOfType("int")).Return(nil)
	repo.On("GetByID", mock.Anything, sweepID).Return(bandSweep(sweepID), nil)
	repo.On("StoreResults", mock.Anything, sweepID, mock.Anything).Return(nil)

	svc := NewSweepService(repo, store, render.NewRenderer(), false)
	err := svc.ProcessSweep(context.Background(), sweepID)
	require.NoError(t, err)

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessSweepUnknownMaterialFails(t *testing.T) {
	sweepID := uuid.New()
	repo := new(MockSweepRepository)
	store := new(MockArtifactStore)

	sweep := bandSweep(sweepID)
	sweep.Request.Material = "Steel"

	repo.On("UpdateStatus", mock.Anything, sweepID, models.StatusProcessing, 10).Return(nil)
	repo.On("GetByID", mock.Anything, sweepID).Return(sweep, nil)
	repo.On("UpdateError", mock.Anything, sweepID, mock.MatchedBy(func(msg string) bool {
		return msg != ""
	})).Return(nil)

	svc := NewSweepService(repo, store, render.NewRenderer(), true)
	err := svc.ProcessSweep(context.Background(), sweepID)
	require.Error(t, err)

	repo.AssertCalled(t, "UpdateError", mock.Anything, sweepID, mock.Anything)
	repo.AssertNotCalled(t, "StoreResults", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessSweepExplicitFrequencies(t *testing.T) {
	sweepID := uuid.New()
	repo := new(MockSweepRepository)
	store := new(MockArtifactStore)

	sweep := bandSweep(sweepID)
	sweep.Request.FreqMin, sweep.Request.FreqMax, sweep.Request.Material = 0, 0, ""
	sweep.Request.Frequencies = []float64{300, 600, 900}

	repo.On("UpdateStatus", mock.Anything, sweepID, mock.AnythingOfType("string"), mock.AnythingOfType("int")).Return(nil)
	repo.On("GetByID", mock.Anything, sweepID).Return(sweep, nil)
	repo.On("StoreResults", mock.Anything, sweepID, mock.MatchedBy(func(results []models.AttenuationResult) bool {
		return len(results) == 3 && results[0].Frequency == 300 && results[2].Frequency == 900
	})).Return(nil)
	store.On("Put", mock.Anything, mock.AnythingOfType("string"), "image/png", mock.Anything).Return(nil)

	svc := NewSweepService(repo, store, render.NewRenderer(), true)
	err := svc.ProcessSweep(context.Background(), sweepID)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
