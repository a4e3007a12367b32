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

type availabilityRepository struct {
	db *sqlx.DB
}

func NewAvailabilityRepository(db *sqlx.DB) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) CreateBlock(ctx context.Context, block *model.WeeklyBlock) error {
	query := `
		INSERT INTO provider_availability (
			id, provider_id, day_of_week, start_time, end_time,
			is_recurring, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	block.ID = uuid.New()
	block.CreatedAt = time.Now()
	block.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		block.ID,
		block.ProviderID,
		block.DayOfWeek,
		block.StartTime,
		block.EndTime,
		block.IsRecurring,
		block.CreatedAt,
		block.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create weekly block: %w", err)
	}
	return nil
}

func (r *availabilityRepository) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM provider_availability WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete weekly block: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("weekly block not found")
	}
	return nil
}

func (r *availabilityRepository) ListBlocks(ctx context.Context, providerID uuid.UUID) ([]*model.WeeklyBlock, error) {
	query := `
		SELECT id, provider_id, day_of_week, start_time, end_time,
			   is_recurring, created_at, updated_at, deleted_at
		FROM provider_availability
		WHERE provider_id = $1 AND deleted_at IS NULL
		ORDER BY day_of_week, start_time
	`
	var blocks []*model.WeeklyBlock
	if err := r.db.SelectContext(ctx, &blocks, query, providerID); err != nil {
		return nil, fmt.Errorf("failed to list weekly blocks: %w", err)
	}
	return blocks, nil
}

func (r *availabilityRepository) CreateException(ctx context.Context, exc *model.AvailabilityException) error {
	query := `
		INSERT INTO availability_exceptions (
			id, provider_id, exception_date, exception_type,
			start_time, end_time, note, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	exc.ID = uuid.New()
	exc.CreatedAt = time.Now()
	exc.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		exc.ID,
		exc.ProviderID,
		exc.ExceptionDate,
		exc.ExceptionType,
		exc.StartTime,
		exc.EndTime,
		exc.Note,
		exc.CreatedAt,
		exc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create availability exception: %w", err)
	}
	return nil
}

func (r *availabilityRepository) DeleteException(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM availability_exceptions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete availability exception: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("availability exception not found")
	}
	return nil
}

func (r *availabilityRepository) ListExceptions(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]*model.AvailabilityException, error) {
	query := `
		SELECT id, provider_id, exception_date, exception_type,
			   start_time, end_time, note, created_at, updated_at, deleted_at
		FROM availability_exceptions
		WHERE provider_id = $1
		AND exception_date >= $2
		AND exception_date <= $3
		AND deleted_at IS NULL
		ORDER BY exception_date
	`
	var exceptions []*model.AvailabilityException
	if err := r.db.SelectContext(ctx, &exceptions, query, providerID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list availability exceptions: %w", err)
	}
	return exceptions, nil
}
