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

type partnerRepository struct {
	db *sqlx.DB
}

func NewPartnerRepository(db *sqlx.DB) repository.PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) Create(ctx context.Context, partner *model.Partner) error {
	query := `
		INSERT INTO partners (
			id, name, kind, state, website, notes, is_active,
			contact_email, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	partner.ID = uuid.New()
	partner.CreatedAt = time.Now()
	partner.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		partner.ID,
		partner.Name,
		partner.Kind,
		partner.State,
		partner.Website,
		partner.Notes,
		partner.IsActive,
		partner.ContactEmail,
		partner.CreatedAt,
		partner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}
	return nil
}

func (r *partnerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Partner, error) {
	query := `
		SELECT id, name, kind, state, website, notes, is_active,
			   contact_email, created_at, updated_at, deleted_at
		FROM partners
		WHERE id = $1 AND deleted_at IS NULL
	`
	var partner model.Partner
	if err := r.db.GetContext(ctx, &partner, query, id); err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	return &partner, nil
}

func (r *partnerRepository) Update(ctx context.Context, partner *model.Partner) error {
	query := `
		UPDATE partners
		SET name = $1, kind = $2, state = $3, website = $4, notes = $5,
			is_active = $6, contact_email = $7, updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL
	`
	partner.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		partner.Name,
		partner.Kind,
		partner.State,
		partner.Website,
		partner.Notes,
		partner.IsActive,
		partner.ContactEmail,
		partner.UpdatedAt,
		partner.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update partner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("partner not found")
	}
	return nil
}

func (r *partnerRepository) List(ctx context.Context) ([]*model.Partner, error) {
	query := `
		SELECT id, name, kind, state, website, notes, is_active,
			   contact_email, created_at, updated_at, deleted_at
		FROM partners
		WHERE deleted_at IS NULL
		ORDER BY name
	`
	var partners []*model.Partner
	if err := r.db.SelectContext(ctx, &partners, query); err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}

func (r *partnerRepository) CreateContact(ctx context.Context, contact *model.PartnerContact) error {
	query := `
		INSERT INTO partner_contacts (
			id, partner_id, name, email, phone, title, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	contact.ID = uuid.New()
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		contact.ID,
		contact.PartnerID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Title,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create partner contact: %w", err)
	}
	return nil
}

func (r *partnerRepository) ListContacts(ctx context.Context, partnerID uuid.UUID) ([]*model.PartnerContact, error) {
	query := `
		SELECT id, partner_id, name, email, phone, title,
			   created_at, updated_at, deleted_at
		FROM partner_contacts
		WHERE partner_id = $1 AND deleted_at IS NULL
		ORDER BY name
	`
	var contacts []*model.PartnerContact
	if err := r.db.SelectContext(ctx, &contacts, query, partnerID); err != nil {
		return nil, fmt.Errorf("failed to list partner contacts: %w", err)
	}
	return contacts, nil
}

func (r *partnerRepository) CreateConsent(ctx context.Context, consent *model.ROIConsent) error {
	query := `
		INSERT INTO roi_consents (
			id, patient_id, partner_id, signed_at, expires_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	consent.ID = uuid.New()
	consent.CreatedAt = time.Now()
	consent.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		consent.ID,
		consent.PatientID,
		consent.PartnerID,
		consent.SignedAt,
		consent.ExpiresAt,
		consent.CreatedAt,
		consent.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ROI consent: %w", err)
	}
	return nil
}

func (r *partnerRepository) GetConsent(ctx context.Context, patientID, partnerID uuid.UUID) (*model.ROIConsent, error) {
	query := `
		SELECT id, patient_id, partner_id, signed_at, expires_at, revoked_at,
			   created_at, updated_at, deleted_at
		FROM roi_consents
		WHERE patient_id = $1 AND partner_id = $2 AND deleted_at IS NULL
		ORDER BY signed_at DESC
		LIMIT 1
	`
	var consent model.ROIConsent
	err := r.db.GetContext(ctx, &consent, query, patientID, partnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ROI consent: %w", err)
	}
	return &consent, nil
}

func (r *partnerRepository) RevokeConsent(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE roi_consents
		SET revoked_at = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL AND revoked_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, at, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to revoke ROI consent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("ROI consent not found")
	}
	return nil
}

func (r *partnerRepository) ListReferrals(ctx context.Context, partnerID uuid.UUID) ([]*model.Referral, error) {
	query := `
		SELECT id, partner_id, patient_id, direction, status, notes,
			   created_at, updated_at, deleted_at
		FROM referrals
		WHERE partner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	var referrals []*model.Referral
	if err := r.db.SelectContext(ctx, &referrals, query, partnerID); err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return referrals, nil
}

func (r *partnerRepository) CreateReferral(ctx context.Context, referral *model.Referral) error {
	query := `
		INSERT INTO referrals (
			id, partner_id, patient_id, direction, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	referral.ID = uuid.New()
	referral.CreatedAt = time.Now()
	referral.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		referral.ID,
		referral.PartnerID,
		referral.PatientID,
		referral.Direction,
		referral.Status,
		referral.Notes,
		referral.CreatedAt,
		referral.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}
