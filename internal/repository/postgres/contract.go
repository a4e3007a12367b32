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

type contractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, contract *model.Contract) error {
	query := `
		INSERT INTO provider_payer_contracts (
			id, provider_id, payer_id, status, effective_date,
			expiration_date, bookable_from_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	contract.ID = uuid.New()
	contract.CreatedAt = time.Now()
	contract.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		contract.ID,
		contract.ProviderID,
		contract.PayerID,
		contract.Status,
		contract.EffectiveDate,
		contract.ExpirationDate,
		contract.BookableFromDate,
		contract.CreatedAt,
		contract.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

func (r *contractRepository) Get(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	query := `
		SELECT id, provider_id, payer_id, status, effective_date,
			   expiration_date, bookable_from_date,
			   created_at, updated_at, deleted_at
		FROM provider_payer_contracts
		WHERE id = $1 AND deleted_at IS NULL
	`
	var contract model.Contract
	if err := r.db.GetContext(ctx, &contract, query, id); err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return &contract, nil
}

func (r *contractRepository) Update(ctx context.Context, contract *model.Contract) error {
	query := `
		UPDATE provider_payer_contracts
		SET status = $1, effective_date = $2, expiration_date = $3,
			bookable_from_date = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`
	contract.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		contract.Status,
		contract.EffectiveDate,
		contract.ExpirationDate,
		contract.BookableFromDate,
		contract.UpdatedAt,
		contract.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contract not found")
	}
	return nil
}

func (r *contractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE provider_payer_contracts
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contract not found")
	}
	return nil
}

func (r *contractRepository) ListForPayer(ctx context.Context, payerID uuid.UUID) ([]*model.Contract, error) {
	query := `
		SELECT id, provider_id, payer_id, status, effective_date,
			   expiration_date, bookable_from_date,
			   created_at, updated_at, deleted_at
		FROM provider_payer_contracts
		WHERE payer_id = $1 AND deleted_at IS NULL
		ORDER BY effective_date
	`
	var contracts []*model.Contract
	if err := r.db.SelectContext(ctx, &contracts, query, payerID); err != nil {
		return nil, fmt.Errorf("failed to list contracts for payer: %w", err)
	}
	return contracts, nil
}

func (r *contractRepository) ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.Contract, error) {
	query := `
		SELECT id, provider_id, payer_id, status, effective_date,
			   expiration_date, bookable_from_date,
			   created_at, updated_at, deleted_at
		FROM provider_payer_contracts
		WHERE provider_id = $1 AND deleted_at IS NULL
		ORDER BY effective_date
	`
	var contracts []*model.Contract
	if err := r.db.SelectContext(ctx, &contracts, query, providerID); err != nil {
		return nil, fmt.Errorf("failed to list contracts for provider: %w", err)
	}
	return contracts, nil
}
