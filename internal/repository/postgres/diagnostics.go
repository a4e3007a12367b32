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

// diagnosticsRepository holds the payer sanity-check queries. All are
// read-only and parameterized on (payer_id, as_of).
type diagnosticsRepository struct {
	db *sqlx.DB
}

func NewDiagnosticsRepository(db *sqlx.DB) repository.DiagnosticsRepository {
	return &diagnosticsRepository{db: db}
}

// ListUncoveredSupervisors finds providers who supervise active
// residents for this payer but have no contract of their own covering
// the as-of date. Residents hanging off such supervisors are silently
// unbookable, which is why this is the one error-level check.
func (r *diagnosticsRepository) ListUncoveredSupervisors(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.UncoveredSupervisor, error) {
	query := `
		SELECT p.id AS provider_id, p.first_name, p.last_name,
			   COUNT(sr.id) AS supervisee_count
		FROM providers p
		JOIN supervision_relationships sr ON sr.supervisor_id = p.id
		WHERE sr.payer_id = $1
		AND sr.is_active = true
		AND sr.start_date <= $2
		AND (sr.end_date IS NULL OR sr.end_date >= $2)
		AND sr.deleted_at IS NULL
		AND p.deleted_at IS NULL
		AND NOT EXISTS (
			SELECT 1 FROM provider_payer_contracts c
			WHERE c.provider_id = p.id
			AND c.payer_id = $1
			AND c.status = 'in_network'
			AND c.effective_date <= $2
			AND (c.expiration_date IS NULL OR c.expiration_date >= $2)
			AND (c.bookable_from_date IS NULL OR c.bookable_from_date <= $2)
			AND c.deleted_at IS NULL
		)
		GROUP BY p.id, p.first_name, p.last_name
		ORDER BY p.last_name, p.first_name
	`
	var supervisors []*model.UncoveredSupervisor
	if err := r.db.SelectContext(ctx, &supervisors, query, payerID, asOf); err != nil {
		return nil, fmt.Errorf("failed to list uncovered supervisors: %w", err)
	}
	return supervisors, nil
}

func (r *diagnosticsRepository) ListUnsupervisedResidents(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.UnsupervisedResident, error) {
	query := `
		SELECT p.id AS provider_id, p.first_name, p.last_name
		FROM providers p
		WHERE p.role = 'resident'
		AND p.is_active = true
		AND p.is_bookable = true
		AND p.deleted_at IS NULL
		AND NOT EXISTS (
			SELECT 1 FROM supervision_relationships sr
			WHERE sr.supervisee_id = p.id
			AND sr.payer_id = $1
			AND sr.is_active = true
			AND sr.start_date <= $2
			AND (sr.end_date IS NULL OR sr.end_date >= $2)
			AND sr.deleted_at IS NULL
		)
		ORDER BY p.last_name, p.first_name
	`
	var residents []*model.UnsupervisedResident
	if err := r.db.SelectContext(ctx, &residents, query, payerID, asOf); err != nil {
		return nil, fmt.Errorf("failed to list unsupervised residents: %w", err)
	}
	return residents, nil
}

// ListBlockedProviders finds providers holding a contract that covers
// the as-of date but who are excluded from booking by their own flags.
func (r *diagnosticsRepository) ListBlockedProviders(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.BlockedProvider, error) {
	query := `
		SELECT DISTINCT p.id AS provider_id, p.first_name, p.last_name,
			   p.is_active, p.is_bookable, p.accepts_new_patients
		FROM providers p
		JOIN provider_payer_contracts c ON c.provider_id = p.id
		WHERE c.payer_id = $1
		AND c.status = 'in_network'
		AND c.effective_date <= $2
		AND (c.expiration_date IS NULL OR c.expiration_date >= $2)
		AND (c.bookable_from_date IS NULL OR c.bookable_from_date <= $2)
		AND c.deleted_at IS NULL
		AND p.deleted_at IS NULL
		AND NOT (p.is_active AND p.is_bookable AND p.accepts_new_patients)
		ORDER BY p.last_name, p.first_name
	`
	var blocked []*model.BlockedProvider
	if err := r.db.SelectContext(ctx, &blocked, query, payerID, asOf); err != nil {
		return nil, fmt.Errorf("failed to list blocked providers: %w", err)
	}
	return blocked, nil
}

func (r *diagnosticsRepository) ListPendingContracts(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.PendingContract, error) {
	query := `
		SELECT p.id AS provider_id, p.first_name, p.last_name,
			   c.effective_date, c.bookable_from_date
		FROM provider_payer_contracts c
		JOIN providers p ON p.id = c.provider_id
		WHERE c.payer_id = $1
		AND c.status = 'in_network'
		AND c.deleted_at IS NULL
		AND p.deleted_at IS NULL
		AND (c.effective_date > $2
			OR (c.bookable_from_date IS NOT NULL AND c.bookable_from_date > $2))
		ORDER BY c.effective_date
	`
	var pending []*model.PendingContract
	if err := r.db.SelectContext(ctx, &pending, query, payerID, asOf); err != nil {
		return nil, fmt.Errorf("failed to list pending contracts: %w", err)
	}
	return pending, nil
}
