package bookability

import (
	"context"
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

type stubContractStore struct {
	contracts []*model.Contract
}

func (s *stubContractStore) ListForPayer(ctx context.Context, payerID uuid.UUID) ([]*model.Contract, error) {
	return s.contracts, nil
}

type stubSupervisionStore struct {
	sups []*model.Supervision
}

func (s *stubSupervisionStore) ListForPayer(ctx context.Context, payerID uuid.UUID) ([]*model.Supervision, error) {
	return s.sups, nil
}

type stubProviderStore struct {
	providers []*model.Provider
}

func (s *stubProviderStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Provider, error) {
	return s.providers, nil
}

type fixture struct {
	payer     *model.Payer
	providers []*model.Provider
	contracts []*model.Contract
	sups      []*model.Supervision
}

func (f *fixture) service() *Service {
	return NewService(
		&stubPayerStore{payer: f.payer},
		&stubContractStore{contracts: f.contracts},
		&stubSupervisionStore{sups: f.sups},
		&stubProviderStore{providers: f.providers},
		nil, nil,
	)
}

func provider(last string, role model.ProviderRole) *model.Provider {
	p := &model.Provider{
		FirstName:          "Test",
		LastName:           last,
		Role:               role,
		IsActive:           true,
		IsBookable:         true,
		AcceptsNewPatients: true,
	}
	p.ID = uuid.New()
	return p
}

func inNetworkContract(providerID, payerID uuid.UUID, effective string) *model.Contract {
	return &model.Contract{
		ProviderID:    providerID,
		PayerID:       payerID,
		Status:        model.ContractStatusInNetwork,
		EffectiveDate: date(effective),
	}
}

func activeSupervision(supervisorID, superviseeID, payerID uuid.UUID) *model.Supervision {
	return &model.Supervision{
		SupervisorID: supervisorID,
		SuperviseeID: superviseeID,
		PayerID:      payerID,
		IsActive:     true,
		StartDate:    date("2025-01-01"),
	}
}

// A payer that requires attending oversight but allows supervised
// billing: the attending is direct, the supervised resident routes
// through the attending's contract, and a nurse practitioner holding
// her own contract is still excluded.
func TestResolveSupervisedRoster(t *testing.T) {
	payerID := uuid.New()
	payer := &model.Payer{
		RequiresAttending: true,
		AllowsSupervised:  true,
	}
	payer.ID = payerID

	attending := provider("Stone", model.ProviderRoleAttending)
	resident := provider("Reyes", model.ProviderRoleResident)
	np := provider("Alvarez", model.ProviderRoleNursePractitioner)

	f := &fixture{
		payer:     payer,
		providers: []*model.Provider{attending, resident, np},
		contracts: []*model.Contract{
			inNetworkContract(attending.ID, payerID, "2025-01-01"),
			inNetworkContract(np.ID, payerID, "2025-01-01"),
		},
		sups: []*model.Supervision{
			activeSupervision(attending.ID, resident.ID, payerID),
		},
	}

	roster, err := f.service().Resolve(context.Background(), payerID, date("2025-06-15"))
	require.NoError(t, err)
	require.Len(t, roster, 2)

	// Sorted by last name: Reyes before Stone.
	assert.Equal(t, resident.ID, roster[0].ProviderID)
	assert.Equal(t, model.NetworkStatusSupervised, roster[0].NetworkStatus)
	assert.Equal(t, attending.ID, roster[0].BillingProviderID)
	assert.Equal(t, []string{"Test Stone"}, roster[0].SupervisingAttendings)

	assert.Equal(t, attending.ID, roster[1].ProviderID)
	assert.Equal(t, model.NetworkStatusDirect, roster[1].NetworkStatus)
	assert.Equal(t, attending.ID, roster[1].BillingProviderID)
}

func TestResolveDirectOnlyPayer(t *testing.T) {
	payerID := uuid.New()
	payer := &model.Payer{
		RequiresAttending: false,
		AllowsSupervised:  false,
	}
	payer.ID = payerID

	np := provider("Alvarez", model.ProviderRoleNursePractitioner)
	resident := provider("Reyes", model.ProviderRoleResident)
	attending := provider("Stone", model.ProviderRoleAttending)

	f := &fixture{
		payer:     payer,
		providers: []*model.Provider{np, resident, attending},
		contracts: []*model.Contract{
			inNetworkContract(np.ID, payerID, "2025-01-01"),
			inNetworkContract(attending.ID, payerID, "2025-01-01"),
		},
		sups: []*model.Supervision{
			activeSupervision(attending.ID, resident.ID, payerID),
		},
	}

	roster, err := f.service().Resolve(context.Background(), payerID, date("2025-06-15"))
	require.NoError(t, err)
	require.Len(t, roster, 2)

	// Supervision is ignored when the payer disallows supervised
	// billing, so the resident never appears.
	assert.Equal(t, np.ID, roster[0].ProviderID)
	assert.Equal(t, model.NetworkStatusDirect, roster[0].NetworkStatus)
	assert.Equal(t, attending.ID, roster[1].ProviderID)
}

func TestResolveSupervisorWithoutCoveringContract(t *testing.T) {
	payerID := uuid.New()
	payer := &model.Payer{
		RequiresAttending: true,
		AllowsSupervised:  true,
	}
	payer.ID = payerID

	attending := provider("Stone", model.ProviderRoleAttending)
	resident := provider("Reyes", model.ProviderRoleResident)

	contract := inNetworkContract(attending.ID, payerID, "2025-01-01")
	contract.ExpirationDate = datePtr("2025-05-31")

	f := &fixture{
		payer:     payer,
		providers: []*model.Provider{attending, resident},
		contracts: []*model.Contract{contract},
		sups: []*model.Supervision{
			activeSupervision(attending.ID, resident.ID, payerID),
		},
	}

	// The supervisor's contract expired before the service date, so
	// neither the supervisor nor the resident has a billing path.
	roster, err := f.service().Resolve(context.Background(), payerID, date("2025-06-15"))
	require.NoError(t, err)
	assert.Empty(t, roster)
}

func TestResolveDirectWinsOverSupervised(t *testing.T) {
	payerID := uuid.New()
	payer := &model.Payer{
		RequiresAttending: true,
		AllowsSupervised:  true,
	}
	payer.ID = payerID

	attending := provider("Stone", model.ProviderRoleAttending)
	junior := provider("Reyes", model.ProviderRolePsychiatrist)

	f := &fixture{
		payer:     payer,
		providers: []*model.Provider{attending, junior},
		contracts: []*model.Contract{
			inNetworkContract(attending.ID, payerID, "2025-01-01"),
			inNetworkContract(junior.ID, payerID, "2025-03-01"),
		},
		sups: []*model.Supervision{
			activeSupervision(attending.ID, junior.ID, payerID),
		},
	}

	roster, err := f.service().Resolve(context.Background(), payerID, date("2025-06-15"))
	require.NoError(t, err)
	require.Len(t, roster, 2)

	assert.Equal(t, junior.ID, roster[0].ProviderID)
	assert.Equal(t, model.NetworkStatusDirect, roster[0].NetworkStatus)
	assert.Equal(t, junior.ID, roster[0].BillingProviderID)
	assert.Empty(t, roster[0].SupervisingAttendings)
}

// The supervised path requires both payer flags. A resident with no
// contract of their own must drop out the moment either flag is off.
func TestResolveSupervisedRequiresBothPayerFlags(t *testing.T) {
	cases := []struct {
		name              string
		requiresAttending bool
		allowsSupervised  bool
		wantResident      bool
	}{
		{"both flags set", true, true, true},
		{"supervision allowed but attending not required", false, true, false},
		{"attending required but supervision disallowed", true, false, false},
		{"neither flag set", false, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payerID := uuid.New()
			payer := &model.Payer{
				RequiresAttending: tc.requiresAttending,
				AllowsSupervised:  tc.allowsSupervised,
			}
			payer.ID = payerID

			attending := provider("Stone", model.ProviderRoleAttending)
			resident := provider("Reyes", model.ProviderRoleResident)

			f := &fixture{
				payer:     payer,
				providers: []*model.Provider{attending, resident},
				contracts: []*model.Contract{
					inNetworkContract(attending.ID, payerID, "2025-01-01"),
				},
				sups: []*model.Supervision{
					activeSupervision(attending.ID, resident.ID, payerID),
				},
			}

			roster, err := f.service().Resolve(context.Background(), payerID, date("2025-06-15"))
			require.NoError(t, err)

			var residentEntry *model.BookableProvider
			for _, e := range roster {
				if e.ProviderID == resident.ID {
					residentEntry = e
				}
			}
			if tc.wantResident {
				require.NotNil(t, residentEntry)
				assert.Equal(t, model.NetworkStatusSupervised, residentEntry.NetworkStatus)
			} else {
				assert.Nil(t, residentEntry)
			}
		})
	}
}

func TestResolveExcludesUnschedulableProviders(t *testing.T) {
	payerID := uuid.New()
	payer := &model.Payer{}
	payer.ID = payerID

	closed := provider("Stone", model.ProviderRoleAttending)
	closed.AcceptsNewPatients = false

	f := &fixture{
		payer:     payer,
		providers: []*model.Provider{closed},
		contracts: []*model.Contract{
			inNetworkContract(closed.ID, payerID, "2025-01-01"),
		},
	}

	roster, err := f.service().Resolve(context.Background(), payerID, date("2025-06-15"))
	require.NoError(t, err)
	assert.Empty(t, roster)
}

func TestResolveMultipleSupervisors(t *testing.T) {
	payerID := uuid.New()
	payer := &model.Payer{
		RequiresAttending: true,
		AllowsSupervised:  true,
	}
	payer.ID = payerID

	first := provider("Ames", model.ProviderRoleAttending)
	second := provider("Stone", model.ProviderRoleAttending)
	resident := provider("Reyes", model.ProviderRoleResident)

	f := &fixture{
		payer:     payer,
		providers: []*model.Provider{first, second, resident},
		contracts: []*model.Contract{
			inNetworkContract(first.ID, payerID, "2025-01-01"),
			inNetworkContract(second.ID, payerID, "2025-01-01"),
		},
		sups: []*model.Supervision{
			activeSupervision(first.ID, resident.ID, payerID),
			activeSupervision(second.ID, resident.ID, payerID),
		},
	}

	roster, err := f.service().Resolve(context.Background(), payerID, date("2025-06-15"))
	require.NoError(t, err)
	require.Len(t, roster, 3)

	var residentEntry *model.BookableProvider
	for _, e := range roster {
		if e.ProviderID == resident.ID {
			residentEntry = e
		}
	}
	require.NotNil(t, residentEntry)
	assert.Len(t, residentEntry.SupervisingAttendings, 2)
}

func TestIsBookable(t *testing.T) {
	payerID := uuid.New()
	payer := &model.Payer{}
	payer.ID = payerID

	attending := provider("Stone", model.ProviderRoleAttending)

	f := &fixture{
		payer:     payer,
		providers: []*model.Provider{attending},
		contracts: []*model.Contract{
			inNetworkContract(attending.ID, payerID, "2025-01-01"),
		},
	}
	svc := f.service()

	entry, err := svc.IsBookable(context.Background(), attending.ID, payerID, date("2025-06-15"))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, model.NetworkStatusDirect, entry.NetworkStatus)

	entry, err = svc.IsBookable(context.Background(), uuid.New(), payerID, date("2025-06-15"))
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestPayerCacheServesRepeatLookups(t *testing.T) {
	payerID := uuid.New()
	payer := &model.Payer{}
	payer.ID = payerID

	store := &countingPayerStore{payer: payer}
	svc := NewService(store, &stubContractStore{}, &stubSupervisionStore{}, &stubProviderStore{}, nil, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Resolve(context.Background(), payerID, time.Now())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.calls)
}

type countingPayerStore struct {
	payer *model.Payer
	calls int
}

func (s *countingPayerStore) Get(ctx context.Context, id uuid.UUID) (*model.Payer, error) {
	s.calls++
	return s.payer, nil
}
