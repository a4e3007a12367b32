package partner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/logger"
)

type Store interface {
	Create(ctx context.Context, partner *model.Partner) error
	Get(ctx context.Context, id uuid.UUID) (*model.Partner, error)
	Update(ctx context.Context, partner *model.Partner) error
	List(ctx context.Context) ([]*model.Partner, error)
	CreateContact(ctx context.Context, contact *model.PartnerContact) error
	ListContacts(ctx context.Context, partnerID uuid.UUID) ([]*model.PartnerContact, error)
	CreateConsent(ctx context.Context, consent *model.ROIConsent) error
	GetConsent(ctx context.Context, patientID, partnerID uuid.UUID) (*model.ROIConsent, error)
	RevokeConsent(ctx context.Context, id uuid.UUID, at time.Time) error
	ListReferrals(ctx context.Context, partnerID uuid.UUID) ([]*model.Referral, error)
	CreateReferral(ctx context.Context, referral *model.Referral) error
}

// Service manages referral partners. Referral data crossing the
// clinic boundary is gated on a signed, unexpired, unrevoked release
// of information consent.
type Service struct {
	partners Store
	logger   *logger.Logger
}

func NewService(partners Store, l *logger.Logger) *Service {
	return &Service{partners: partners, logger: l}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePartnerRequest) (*model.Partner, error) {
	partner := &model.Partner{
		Name:         req.Name,
		Kind:         req.Kind,
		State:        req.State,
		Website:      req.Website,
		Notes:        req.Notes,
		IsActive:     true,
		ContactEmail: req.ContactEmail,
	}
	if err := s.partners.Create(ctx, partner); err != nil {
		return nil, errors.Internal(err)
	}
	return partner, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Partner, error) {
	partner, err := s.partners.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("partner", err)
	}
	return partner, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Partner, error) {
	partners, err := s.partners.List(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return partners, nil
}

func (s *Service) AddContact(ctx context.Context, partnerID uuid.UUID, req *model.CreatePartnerContactRequest) (*model.PartnerContact, error) {
	if _, err := s.partners.Get(ctx, partnerID); err != nil {
		return nil, errors.NotFound("partner", err)
	}
	contact := &model.PartnerContact{
		PartnerID: partnerID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Title:     req.Title,
	}
	if err := s.partners.CreateContact(ctx, contact); err != nil {
		return nil, errors.Internal(err)
	}
	return contact, nil
}

func (s *Service) ListContacts(ctx context.Context, partnerID uuid.UUID) ([]*model.PartnerContact, error) {
	contacts, err := s.partners.ListContacts(ctx, partnerID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return contacts, nil
}

func (s *Service) RecordConsent(ctx context.Context, partnerID uuid.UUID, req *model.CreateROIConsentRequest) (*model.ROIConsent, error) {
	if _, err := s.partners.Get(ctx, partnerID); err != nil {
		return nil, errors.NotFound("partner", err)
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(req.SignedAt) {
		return nil, errors.BadRequest("expires_at precedes signed_at", nil)
	}
	consent := &model.ROIConsent{
		PatientID: req.PatientID,
		PartnerID: partnerID,
		SignedAt:  req.SignedAt,
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.partners.CreateConsent(ctx, consent); err != nil {
		return nil, errors.Internal(err)
	}
	return consent, nil
}

func (s *Service) RevokeConsent(ctx context.Context, id uuid.UUID) error {
	if err := s.partners.RevokeConsent(ctx, id, time.Now()); err != nil {
		return errors.Internal(err)
	}
	return nil
}

// CreateReferral records a referral. It refuses to share a patient
// with a partner unless an ROI consent is active today.
func (s *Service) CreateReferral(ctx context.Context, partnerID uuid.UUID, req *model.CreateReferralRequest) (*model.Referral, error) {
	if _, err := s.partners.Get(ctx, partnerID); err != nil {
		return nil, errors.NotFound("partner", err)
	}

	consent, err := s.partners.GetConsent(ctx, req.PatientID, partnerID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if consent == nil || !consent.ActiveOn(time.Now()) {
		return nil, errors.Forbidden("no active release of information consent for this patient and partner", nil)
	}

	status := req.Status
	if status == "" {
		status = "pending"
	}
	referral := &model.Referral{
		PartnerID: partnerID,
		PatientID: req.PatientID,
		Direction: req.Direction,
		Status:    status,
		Notes:     req.Notes,
	}
	if err := s.partners.CreateReferral(ctx, referral); err != nil {
		return nil, errors.Internal(err)
	}
	return referral, nil
}

func (s *Service) ListReferrals(ctx context.Context, partnerID uuid.UUID) ([]*model.Referral, error) {
	referrals, err := s.partners.ListReferrals(ctx, partnerID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return referrals, nil
}
