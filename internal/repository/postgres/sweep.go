package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvelasco/metasim/internal/repository"
	"github.com/mvelasco/metasim/pkg/models"
)

// PostgresSweepRepository implements SweepRepository for PostgreSQL
type PostgresSweepRepository struct {
	db *sql.DB
}

// NewPostgresSweepRepository creates a new PostgreSQL sweep repository
func NewPostgresSweepRepository(db *sql.DB) repository.SweepRepository {
	return &PostgresSweepRepository{db: db}
}

// Create inserts a new sweep record with its request payload
func (r *PostgresSweepRepository) Create(ctx context.Context, sweep *models.Sweep) error {
	request, err := json.Marshal(sweep.Request)
	if err != nil {
		return fmt.Errorf("marshal sweep request: %w", err)
	}

	query := `
		INSERT INTO sweeps (id, status, progress, request, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		sweep.ID,
		sweep.Status,
		sweep.Progress,
		request,
		sweep.CreatedAt,
		sweep.UpdatedAt)

	return err
}

// GetByID retrieves a sweep by ID
func (r *PostgresSweepRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sweep, error) {
	query := `
		SELECT id, status, progress, request, error_message, created_at, updated_at, completed_at
		FROM sweeps
		WHERE id = $1`

	var sweep models.Sweep
	var request []byte
	var errorMsg sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sweep.ID,
		&sweep.Status,
		&sweep.Progress,
		&request,
		&errorMsg,
		&sweep.CreatedAt,
		&sweep.UpdatedAt,
		&completedAt)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(request, &sweep.Request); err != nil {
		return nil, fmt.Errorf("unmarshal sweep request: %w", err)
	}
	if errorMsg.Valid {
		sweep.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		sweep.CompletedAt = &completedAt.Time
	}

	return &sweep, nil
}

// UpdateStatus updates the status and progress of a sweep
func (r *PostgresSweepRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE sweeps
		SET status = $2, progress = $3, updated_at = $4,
		    completed_at = CASE WHEN $2 = 'completed' THEN $4 ELSE completed_at END
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, progress, time.Now())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateError marks a sweep as failed with an error message
func (r *PostgresSweepRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE sweeps
		SET status = 'failed', error_message = $2, updated_at = $3
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, errorMsg, time.Now())
	return err
}

// StoreResults stores the attenuation curve, one row per frequency in
// input order
func (r *PostgresSweepRepository) StoreResults(ctx context.Context, id uuid.UUID, results []models.AttenuationResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO sweep_results (sweep_id, ordinal, frequency, attenuation_db)
		VALUES ($1, $2, $3, $4)`

	for i, res := range results {
		if _, err := tx.ExecContext(ctx, query, id, i, res.Frequency, res.AttenuationDB); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetResults retrieves the attenuation curve ordered as it was produced
func (r *PostgresSweepRepository) GetResults(ctx context.Context, id uuid.UUID) ([]models.AttenuationResult, error) {
	query := `
		SELECT frequency, attenuation_db
		FROM sweep_results
		WHERE sweep_id = $1
		ORDER BY ordinal`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.AttenuationResult
	for rows.Next() {
		var res models.AttenuationResult
		if err := rows.Scan(&res.Frequency, &res.AttenuationDB); err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, rows.Err()
}
