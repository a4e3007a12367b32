package partner

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
)

type stubStore struct {
	partner   *model.Partner
	consent   *model.ROIConsent
	referrals []*model.Referral
}

func (s *stubStore) Create(ctx context.Context, p *model.Partner) error {
	p.ID = uuid.New()
	s.partner = p
	return nil
}
func (s *stubStore) Get(ctx context.Context, id uuid.UUID) (*model.Partner, error) {
	return s.partner, nil
}
func (s *stubStore) Update(ctx context.Context, p *model.Partner) error { return nil }
func (s *stubStore) List(ctx context.Context) ([]*model.Partner, error) {
	return []*model.Partner{s.partner}, nil
}
func (s *stubStore) CreateContact(ctx context.Context, c *model.PartnerContact) error { return nil }
func (s *stubStore) ListContacts(ctx context.Context, partnerID uuid.UUID) ([]*model.PartnerContact, error) {
	return nil, nil
}
func (s *stubStore) CreateConsent(ctx context.Context, c *model.ROIConsent) error {
	s.consent = c
	return nil
}
func (s *stubStore) GetConsent(ctx context.Context, patientID, partnerID uuid.UUID) (*model.ROIConsent, error) {
	return s.consent, nil
}
func (s *stubStore) RevokeConsent(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.consent != nil {
		s.consent.RevokedAt = &at
	}
	return nil
}
func (s *stubStore) ListReferrals(ctx context.Context, partnerID uuid.UUID) ([]*model.Referral, error) {
	return s.referrals, nil
}
func (s *stubStore) CreateReferral(ctx context.Context, r *model.Referral) error {
	s.referrals = append(s.referrals, r)
	return nil
}

func newFixture() (*Service, *stubStore) {
	store := &stubStore{partner: &model.Partner{Name: "Harborview Counseling", IsActive: true}}
	store.partner.ID = uuid.New()
	return NewService(store, nil), store
}

func TestCreateReferralRequiresActiveConsent(t *testing.T) {
	svc, store := newFixture()
	patientID := uuid.New()

	req := &model.CreateReferralRequest{
		PatientID: patientID,
		Direction: "outbound",
	}

	_, err := svc.CreateReferral(context.Background(), store.partner.ID, req)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	store.consent = &model.ROIConsent{
		PatientID: patientID,
		PartnerID: store.partner.ID,
		SignedAt:  time.Now().AddDate(0, -1, 0),
	}

	referral, err := svc.CreateReferral(context.Background(), store.partner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "pending", referral.Status)
	require.Len(t, store.referrals, 1)
}

func TestCreateReferralRejectsRevokedConsent(t *testing.T) {
	svc, store := newFixture()
	patientID := uuid.New()

	revoked := time.Now().AddDate(0, 0, -1)
	store.consent = &model.ROIConsent{
		PatientID: patientID,
		PartnerID: store.partner.ID,
		SignedAt:  time.Now().AddDate(0, -6, 0),
		RevokedAt: &revoked,
	}

	_, err := svc.CreateReferral(context.Background(), store.partner.ID, &model.CreateReferralRequest{
		PatientID: patientID,
		Direction: "outbound",
	})
	require.Error(t, err)
}

func TestCreateReferralRejectsExpiredConsent(t *testing.T) {
	svc, store := newFixture()
	patientID := uuid.New()

	expired := time.Now().AddDate(0, 0, -1)
	store.consent = &model.ROIConsent{
		PatientID: patientID,
		PartnerID: store.partner.ID,
		SignedAt:  time.Now().AddDate(-1, 0, 0),
		ExpiresAt: &expired,
	}

	_, err := svc.CreateReferral(context.Background(), store.partner.ID, &model.CreateReferralRequest{
		PatientID: patientID,
		Direction: "inbound",
	})
	require.Error(t, err)
}

func TestRecordConsentValidatesWindow(t *testing.T) {
	svc, store := newFixture()

	signed := time.Now()
	expired := signed.AddDate(0, 0, -1)
	_, err := svc.RecordConsent(context.Background(), store.partner.ID, &model.CreateROIConsentRequest{
		PatientID: uuid.New(),
		SignedAt:  signed,
		ExpiresAt: &expired,
	})
	require.Error(t, err)

	consent, err := svc.RecordConsent(context.Background(), store.partner.ID, &model.CreateROIConsentRequest{
		PatientID: uuid.New(),
		SignedAt:  signed,
	})
	require.NoError(t, err)
	assert.Equal(t, store.partner.ID, consent.PartnerID)
}
