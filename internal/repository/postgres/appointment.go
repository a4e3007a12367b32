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

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, provider_id, patient_id, payer_id, date, time,
			duration_minutes, status, telehealth, notes,
			pms_appointment_id, idempotency_key, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.ProviderID,
		apt.PatientID,
		apt.PayerID,
		apt.Date,
		apt.Time,
		apt.DurationMinutes,
		apt.Status,
		apt.Telehealth,
		apt.Notes,
		apt.PMSAppointmentID,
		apt.IdempotencyKey,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, provider_id, patient_id, payer_id, date, time,
			   duration_minutes, status, telehealth, notes, cancel_reason,
			   pms_appointment_id, created_at, updated_at, deleted_at
		FROM appointments
		WHERE id = $1 AND deleted_at IS NULL
	`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET date = $1, time = $2, duration_minutes = $3, status = $4,
			notes = $5, cancel_reason = $6, pms_appointment_id = $7,
			updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		apt.Date,
		apt.Time,
		apt.DurationMinutes,
		apt.Status,
		apt.Notes,
		apt.CancelReason,
		apt.PMSAppointmentID,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	query := `
		SELECT id, provider_id, patient_id, payer_id, date, time,
			   duration_minutes, status, telehealth, notes, cancel_reason,
			   pms_appointment_id, created_at, updated_at, deleted_at
		FROM appointments
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}
	argCount := 1

	if filter.ProviderID != uuid.Nil {
		query += fmt.Sprintf(" AND provider_id = $%d", argCount)
		args = append(args, filter.ProviderID)
		argCount++
	}
	if filter.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filter.PatientID)
		argCount++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}
	if !filter.StartDate.IsZero() {
		query += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, filter.StartDate)
		argCount++
	}
	if !filter.EndDate.IsZero() {
		query += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, filter.EndDate)
		argCount++
	}

	query += " ORDER BY date, time"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForProviderInRange(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, provider_id, patient_id, payer_id, date, time,
			   duration_minutes, status, telehealth, notes, cancel_reason,
			   pms_appointment_id, created_at, updated_at, deleted_at
		FROM appointments
		WHERE provider_id = $1
		AND date >= $2
		AND date <= $3
		AND status NOT IN ('cancelled', 'completed')
		AND deleted_at IS NULL
		ORDER BY date, time
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, providerID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list provider appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ExistsAt(ctx context.Context, providerID uuid.UUID, date time.Time, clock string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE provider_id = $1
			AND date = $2
			AND time = $3
			AND status NOT IN ('cancelled', 'completed')
			AND deleted_at IS NULL
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, providerID, date, clock); err != nil {
		return false, fmt.Errorf("failed to check appointment slot: %w", err)
	}
	return exists, nil
}

func (r *appointmentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*model.Appointment, error) {
	query := `
		SELECT id, provider_id, patient_id, payer_id, date, time,
			   duration_minutes, status, telehealth, notes, cancel_reason,
			   pms_appointment_id, created_at, updated_at, deleted_at
		FROM appointments
		WHERE idempotency_key = $1 AND deleted_at IS NULL
	`
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	return &apt, nil
}
