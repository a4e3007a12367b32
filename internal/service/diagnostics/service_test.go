package diagnostics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpsych/clinic-api/internal/model"
)

type stubPayerStore struct {
	payer *model.Payer
}

func (s *stubPayerStore) Get(ctx context.Context, id uuid.UUID) (*model.Payer, error) {
	return s.payer, nil
}

type stubCheckStore struct {
	uncovered []*model.UncoveredSupervisor
	residents []*model.UnsupervisedResident
	blocked   []*model.BlockedProvider
	pending   []*model.PendingContract
	failWith  error
}

func (s *stubCheckStore) ListUncoveredSupervisors(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.UncoveredSupervisor, error) {
	return s.uncovered, s.failWith
}

func (s *stubCheckStore) ListUnsupervisedResidents(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.UnsupervisedResident, error) {
	return s.residents, s.failWith
}

func (s *stubCheckStore) ListBlockedProviders(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.BlockedProvider, error) {
	return s.blocked, s.failWith
}

func (s *stubCheckStore) ListPendingContracts(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.PendingContract, error) {
	return s.pending, s.failWith
}

type stubResolver struct {
	roster []*model.BookableProvider
}

func (s *stubResolver) Resolve(ctx context.Context, payerID uuid.UUID, date time.Time) ([]*model.BookableProvider, error) {
	return s.roster, nil
}

func approvedPayer() *model.Payer {
	effective := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &model.Payer{
		Name:             "Blue Ridge Health",
		StatusCode:       model.PayerStatusApproved,
		EffectiveDate:    &effective,
		AllowsSupervised: true,
	}
	p.ID = uuid.New()
	return p
}

func asOf() time.Time {
	return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
}

func TestRunCleanPayer(t *testing.T) {
	payer := approvedPayer()
	svc := NewService(
		&stubPayerStore{payer: payer},
		&stubCheckStore{},
		&stubResolver{roster: []*model.BookableProvider{
			{FirstName: "Amy", LastName: "Stone", Role: model.ProviderRoleAttending, NetworkStatus: model.NetworkStatusDirect},
		}},
		nil, nil,
	)

	report, err := svc.Run(context.Background(), payer.ID, asOf())
	require.NoError(t, err)

	assert.False(t, report.HasErrors)
	assert.False(t, report.HasWarnings)
	assert.Equal(t, payer.Name, report.PayerName)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, model.FindingInfo, report.Findings[0].Level)
	assert.Equal(t, "bookable_providers", report.Findings[0].Category)
}

func TestRunUncoveredSupervisorIsError(t *testing.T) {
	payer := approvedPayer()
	svc := NewService(
		&stubPayerStore{payer: payer},
		&stubCheckStore{
			uncovered: []*model.UncoveredSupervisor{
				{FirstName: "Amy", LastName: "Stone", SuperviseeCount: 2},
			},
		},
		&stubResolver{},
		nil, nil,
	)

	report, err := svc.Run(context.Background(), payer.ID, asOf())
	require.NoError(t, err)

	assert.True(t, report.HasErrors)
	require.Len(t, report.UncoveredSupervisors, 1)

	var found bool
	for _, f := range report.Findings {
		if f.Category == "uncovered_supervisors" {
			found = true
			assert.Equal(t, model.FindingError, f.Level)
			assert.Contains(t, f.Message, "supervises 2 residents")
		}
	}
	assert.True(t, found)
}

func TestRunFindingLevels(t *testing.T) {
	payer := approvedPayer()
	effective := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(
		&stubPayerStore{payer: payer},
		&stubCheckStore{
			residents: []*model.UnsupervisedResident{
				{FirstName: "Ben", LastName: "Reyes"},
			},
			blocked: []*model.BlockedProvider{
				{FirstName: "Cara", LastName: "Alvarez", IsActive: true, IsBookable: true},
			},
			pending: []*model.PendingContract{
				{FirstName: "Dan", LastName: "Okafor", EffectiveDate: effective},
			},
		},
		&stubResolver{roster: []*model.BookableProvider{{LastName: "Stone"}}},
		nil, nil,
	)

	report, err := svc.Run(context.Background(), payer.ID, asOf())
	require.NoError(t, err)

	assert.False(t, report.HasErrors)
	assert.True(t, report.HasWarnings)

	levels := map[string]model.FindingLevel{}
	for _, f := range report.Findings {
		levels[f.Category] = f.Level
	}
	assert.Equal(t, model.FindingWarning, levels["unsupervised_residents"])
	assert.Equal(t, model.FindingInfo, levels["blocked_providers"])
	assert.Equal(t, model.FindingInfo, levels["pending_contracts"])
}

func TestRunPayerConfigFindings(t *testing.T) {
	payer := &model.Payer{
		Name:              "Lakeview Mutual",
		StatusCode:        model.PayerStatusPending,
		RequiresAttending: true,
		AllowsSupervised:  false,
	}
	payer.ID = uuid.New()

	svc := NewService(
		&stubPayerStore{payer: payer},
		&stubCheckStore{},
		&stubResolver{roster: []*model.BookableProvider{{LastName: "Stone"}}},
		nil, nil,
	)

	report, err := svc.Run(context.Background(), payer.ID, asOf())
	require.NoError(t, err)

	var messages []string
	for _, f := range report.Findings {
		if f.Category == "payer_config" {
			messages = append(messages, f.Message)
		}
	}
	require.Len(t, messages, 3)
	assert.True(t, report.HasWarnings)
}

// A failed check query degrades to an empty result instead of failing
// the report.
func TestRunCheckFailureIsBestEffort(t *testing.T) {
	payer := approvedPayer()
	svc := NewService(
		&stubPayerStore{payer: payer},
		&stubCheckStore{failWith: errors.New("connection reset")},
		&stubResolver{roster: []*model.BookableProvider{{LastName: "Stone"}}},
		nil, nil,
	)

	report, err := svc.Run(context.Background(), payer.ID, asOf())
	require.NoError(t, err)
	assert.Empty(t, report.UncoveredSupervisors)
	assert.Empty(t, report.BlockedProviders)
	assert.False(t, report.HasErrors)
}

func TestRenderText(t *testing.T) {
	report := &model.DiagnosticReport{
		PayerName:   "Blue Ridge Health",
		AsOf:        asOf(),
		HasWarnings: true,
		Findings: []model.Finding{
			{Level: model.FindingWarning, Category: "unsupervised_residents", Message: "Ben Reyes has no supervision link"},
		},
		BookableProviders: []model.BookableProvider{
			{
				FirstName:             "Ben",
				LastName:              "Reyes",
				Role:                  model.ProviderRoleResident,
				NetworkStatus:         model.NetworkStatusSupervised,
				SupervisingAttendings: []string{"Amy Stone"},
			},
		},
	}

	text := RenderText(report)
	assert.Contains(t, text, "Payer diagnostics: Blue Ridge Health")
	assert.Contains(t, text, "Status: warnings")
	assert.Contains(t, text, "[WARNING] unsupervised_residents")
	assert.Contains(t, text, "Ben Reyes (resident, supervised) under Amy Stone")
}
