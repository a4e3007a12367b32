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

type payerRepository struct {
	db *sqlx.DB
}

func NewPayerRepository(db *sqlx.DB) repository.PayerRepository {
	return &payerRepository{db: db}
}

func (r *payerRepository) Create(ctx context.Context, payer *model.Payer) error {
	query := `
		INSERT INTO payers (
			id, name, payer_type, state, status_code, effective_date,
			requires_attending, allows_supervised, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	payer.ID = uuid.New()
	payer.CreatedAt = time.Now()
	payer.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		payer.ID,
		payer.Name,
		payer.PayerType,
		payer.State,
		payer.StatusCode,
		payer.EffectiveDate,
		payer.RequiresAttending,
		payer.AllowsSupervised,
		payer.CreatedAt,
		payer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payer: %w", err)
	}
	return nil
}

func (r *payerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Payer, error) {
	query := `
		SELECT id, name, payer_type, state, status_code, effective_date,
			   requires_attending, allows_supervised,
			   created_at, updated_at, deleted_at
		FROM payers
		WHERE id = $1 AND deleted_at IS NULL
	`
	var payer model.Payer
	if err := r.db.GetContext(ctx, &payer, query, id); err != nil {
		return nil, fmt.Errorf("failed to get payer: %w", err)
	}
	return &payer, nil
}

func (r *payerRepository) Update(ctx context.Context, payer *model.Payer) error {
	query := `
		UPDATE payers
		SET name = $1, payer_type = $2, state = $3, status_code = $4,
			effective_date = $5, requires_attending = $6,
			allows_supervised = $7, updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL
	`
	payer.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		payer.Name,
		payer.PayerType,
		payer.State,
		payer.StatusCode,
		payer.EffectiveDate,
		payer.RequiresAttending,
		payer.AllowsSupervised,
		payer.UpdatedAt,
		payer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("payer not found")
	}
	return nil
}

func (r *payerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE payers
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete payer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("payer not found")
	}
	return nil
}

func (r *payerRepository) List(ctx context.Context) ([]*model.Payer, error) {
	query := `
		SELECT id, name, payer_type, state, status_code, effective_date,
			   requires_attending, allows_supervised,
			   created_at, updated_at, deleted_at
		FROM payers
		WHERE deleted_at IS NULL
		ORDER BY name
	`
	var payers []*model.Payer
	if err := r.db.SelectContext(ctx, &payers, query); err != nil {
		return nil, fmt.Errorf("failed to list payers: %w", err)
	}
	return payers, nil
}
