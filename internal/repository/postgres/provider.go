package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/internal/repository"
)

type providerRepository struct {
	db *sqlx.DB
}

func NewProviderRepository(db *sqlx.DB) repository.ProviderRepository {
	return &providerRepository{db: db}
}

func (r *providerRepository) Create(ctx context.Context, provider *model.Provider) error {
	query := `
		INSERT INTO providers (
			id, first_name, last_name, email, role, npi,
			is_active, is_bookable, accepts_new_patients, telehealth,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	provider.ID = uuid.New()
	provider.CreatedAt = time.Now()
	provider.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		provider.ID,
		provider.FirstName,
		provider.LastName,
		provider.Email,
		provider.Role,
		provider.NPI,
		provider.IsActive,
		provider.IsBookable,
		provider.AcceptsNewPatients,
		provider.Telehealth,
		provider.CreatedAt,
		provider.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *providerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	query := `
		SELECT id, first_name, last_name, email, role, npi,
			   is_active, is_bookable, accepts_new_patients, telehealth,
			   created_at, updated_at, deleted_at
		FROM providers
		WHERE id = $1 AND deleted_at IS NULL
	`
	var provider model.Provider
	if err := r.db.GetContext(ctx, &provider, query, id); err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return &provider, nil
}

func (r *providerRepository) Update(ctx context.Context, provider *model.Provider) error {
	query := `
		UPDATE providers
		SET first_name = $1, last_name = $2, email = $3, role = $4, npi = $5,
			is_active = $6, is_bookable = $7, accepts_new_patients = $8,
			telehealth = $9, updated_at = $10
		WHERE id = $11 AND deleted_at IS NULL
	`
	provider.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		provider.FirstName,
		provider.LastName,
		provider.Email,
		provider.Role,
		provider.NPI,
		provider.IsActive,
		provider.IsBookable,
		provider.AcceptsNewPatients,
		provider.Telehealth,
		provider.UpdatedAt,
		provider.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("provider not found")
	}
	return nil
}

// Deactivate soft-disables a provider. Providers are never physically
// deleted.
func (r *providerRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE providers
		SET is_active = false, is_bookable = false, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("provider not found")
	}
	return nil
}

func (r *providerRepository) List(ctx context.Context, filter model.ProviderFilter) ([]*model.Provider, error) {
	query := `
		SELECT id, first_name, last_name, email, role, npi,
			   is_active, is_bookable, accepts_new_patients, telehealth,
			   created_at, updated_at, deleted_at
		FROM providers
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}
	argCount := 1

	if filter.Role != "" {
		query += fmt.Sprintf(" AND role = $%d", argCount)
		args = append(args, filter.Role)
		argCount++
	}
	if filter.ActiveOnly {
		query += " AND is_active = true"
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	query += " ORDER BY last_name, first_name"

	var providers []*model.Provider
	if err := r.db.SelectContext(ctx, &providers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}

func (r *providerRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Provider, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, first_name, last_name, email, role, npi,
			   is_active, is_bookable, accepts_new_patients, telehealth,
			   created_at, updated_at, deleted_at
		FROM providers
		WHERE id = ANY($1) AND deleted_at IS NULL
	`
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	var providers []*model.Provider
	if err := r.db.SelectContext(ctx, &providers, query, pq.Array(strIDs)); err != nil {
		return nil, fmt.Errorf("failed to list providers by ids: %w", err)
	}
	return providers, nil
}
