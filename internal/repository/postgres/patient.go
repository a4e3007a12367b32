package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/internal/repository"
)

type patientRepository struct {
	*BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{BaseRepository: &base}
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, date_of_birth,
			   payer_id, provider_id, created_at, updated_at, deleted_at
		FROM patients
		WHERE id = $1 AND deleted_at IS NULL
	`
	var patient model.Patient
	if err := r.GetDB().GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, date_of_birth,
			   payer_id, provider_id, created_at, updated_at, deleted_at
		FROM patients
		WHERE deleted_at IS NULL
		ORDER BY last_name, first_name
	`
	var patients []*model.Patient
	if err := r.GetDB().SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// GetEngagement returns nil when no row exists; callers treat that as
// implicitly active.
func (r *patientRepository) GetEngagement(ctx context.Context, patientID uuid.UUID) (*model.EngagementRecord, error) {
	query := `
		SELECT patient_id, status, change_reason, changed_by_email, updated_at
		FROM patient_engagement
		WHERE patient_id = $1
	`
	var rec model.EngagementRecord
	err := r.GetDB().GetContext(ctx, &rec, query, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get engagement record: %w", err)
	}
	return &rec, nil
}

func (r *patientRepository) UpsertEngagementTx(ctx context.Context, tx *sqlx.Tx, rec *model.EngagementRecord) error {
	query := `
		INSERT INTO patient_engagement (
			patient_id, status, change_reason, changed_by_email, updated_at
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (patient_id) DO UPDATE
		SET status = EXCLUDED.status,
			change_reason = EXCLUDED.change_reason,
			changed_by_email = EXCLUDED.changed_by_email,
			updated_at = EXCLUDED.updated_at
	`
	rec.UpdatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		rec.PatientID,
		rec.Status,
		rec.ChangeReason,
		rec.ChangedByEmail,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert engagement record: %w", err)
	}
	return nil
}

func (r *patientRepository) InsertEngagementChangeTx(ctx context.Context, tx *sqlx.Tx, change *model.EngagementStatusChange) error {
	query := `
		INSERT INTO patient_engagement_history (
			id, patient_id, from_status, to_status, change_reason,
			changed_by_email, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	change.ID = uuid.New()
	change.CreatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		change.ID,
		change.PatientID,
		change.FromStatus,
		change.ToStatus,
		change.ChangeReason,
		change.ChangedByEmail,
		change.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert engagement history: %w", err)
	}
	return nil
}

func (r *patientRepository) ListEngagementHistory(ctx context.Context, patientID uuid.UUID) ([]*model.EngagementStatusChange, error) {
	query := `
		SELECT id, patient_id, from_status, to_status, change_reason,
			   changed_by_email, created_at
		FROM patient_engagement_history
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	var changes []*model.EngagementStatusChange
	if err := r.GetDB().SelectContext(ctx, &changes, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list engagement history: %w", err)
	}
	return changes, nil
}

func (r *patientRepository) ListRoster(ctx context.Context) ([]*model.RosterEntry, error) {
	query := `
		SELECT patient_id, first_name, last_name, email, status,
			   provider_name, payer_name
		FROM mv_patient_roster
		ORDER BY last_name, first_name
	`
	var entries []*model.RosterEntry
	if err := r.GetDB().SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list patient roster: %w", err)
	}
	return entries, nil
}

// RefreshRoster refreshes the roster materialized view so list views
// reflect an engagement change immediately.
func (r *patientRepository) RefreshRoster(ctx context.Context) error {
	if _, err := r.GetDB().ExecContext(ctx, `REFRESH MATERIALIZED VIEW CONCURRENTLY mv_patient_roster`); err != nil {
		return fmt.Errorf("failed to refresh patient roster view: %w", err)
	}
	return nil
}
