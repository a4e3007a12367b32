package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/internal/repository"
)

type supervisionRepository struct {
	db *sqlx.DB
}

func NewSupervisionRepository(db *sqlx.DB) repository.SupervisionRepository {
	return &supervisionRepository{db: db}
}

func (r *supervisionRepository) Create(ctx context.Context, sup *model.Supervision) error {
	query := `
		INSERT INTO supervision_relationships (
			id, supervisor_id, supervisee_id, payer_id, is_active,
			start_date, end_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	sup.ID = uuid.New()
	sup.CreatedAt = time.Now()
	sup.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		sup.ID,
		sup.SupervisorID,
		sup.SuperviseeID,
		sup.PayerID,
		sup.IsActive,
		sup.StartDate,
		sup.EndDate,
		sup.CreatedAt,
		sup.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create supervision relationship: %w", err)
	}
	return nil
}

func (r *supervisionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Supervision, error) {
	query := `
		SELECT id, supervisor_id, supervisee_id, payer_id, is_active,
			   start_date, end_date, created_at, updated_at, deleted_at
		FROM supervision_relationships
		WHERE id = $1 AND deleted_at IS NULL
	`
	var sup model.Supervision
	if err := r.db.GetContext(ctx, &sup, query, id); err != nil {
		return nil, fmt.Errorf("failed to get supervision relationship: %w", err)
	}
	return &sup, nil
}

func (r *supervisionRepository) End(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	query := `
		UPDATE supervision_relationships
		SET is_active = false, end_date = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, endDate, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to end supervision relationship: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("supervision relationship not found")
	}
	return nil
}

func (r *supervisionRepository) ListForPayer(ctx context.Context, payerID uuid.UUID) ([]*model.Supervision, error) {
	query := `
		SELECT id, supervisor_id, supervisee_id, payer_id, is_active,
			   start_date, end_date, created_at, updated_at, deleted_at
		FROM supervision_relationships
		WHERE payer_id = $1 AND deleted_at IS NULL
		ORDER BY start_date
	`
	var sups []*model.Supervision
	if err := r.db.SelectContext(ctx, &sups, query, payerID); err != nil {
		return nil, fmt.Errorf("failed to list supervision relationships: %w", err)
	}
	return sups, nil
}

func (r *supervisionRepository) ListForSupervisee(ctx context.Context, superviseeID uuid.UUID) ([]*model.Supervision, error) {
	query := `
		SELECT id, supervisor_id, supervisee_id, payer_id, is_active,
			   start_date, end_date, created_at, updated_at, deleted_at
		FROM supervision_relationships
		WHERE supervisee_id = $1 AND deleted_at IS NULL
		ORDER BY start_date
	`
	var sups []*model.Supervision
	if err := r.db.SelectContext(ctx, &sups, query, superviseeID); err != nil {
		return nil, fmt.Errorf("failed to list supervision relationships: %w", err)
	}
	return sups, nil
}
