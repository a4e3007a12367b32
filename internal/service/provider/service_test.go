package provider

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpsych/clinic-api/internal/model"
)

type stubStore struct {
	providers   []*model.Provider
	updated     []*model.Provider
	deactivated []uuid.UUID
}

func (s *stubStore) Create(ctx context.Context, p *model.Provider) error {
	p.ID = uuid.New()
	s.providers = append(s.providers, p)
	return nil
}

func (s *stubStore) Get(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	return s.providers[0], nil
}

func (s *stubStore) Update(ctx context.Context, p *model.Provider) error {
	s.updated = append(s.updated, p)
	return nil
}

func (s *stubStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	s.deactivated = append(s.deactivated, id)
	return nil
}

func (s *stubStore) List(ctx context.Context, filter model.ProviderFilter) ([]*model.Provider, error) {
	return s.providers, nil
}

type stubContracts struct {
	contracts []*model.Contract
}

func (s *stubContracts) Create(ctx context.Context, c *model.Contract) error { return nil }
func (s *stubContracts) Get(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	return nil, nil
}
func (s *stubContracts) Update(ctx context.Context, c *model.Contract) error { return nil }
func (s *stubContracts) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (s *stubContracts) ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.Contract, error) {
	return s.contracts, nil
}

type stubPayers struct {
	payers []*model.Payer
}

func (s *stubPayers) List(ctx context.Context) ([]*model.Payer, error) {
	return s.payers, nil
}

func TestCreateProviderStartsActive(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, &stubContracts{}, &stubPayers{}, nil)

	p, err := svc.Create(context.Background(), &model.CreateProviderRequest{
		FirstName:  "Amy",
		LastName:   "Stone",
		Email:      "stone@example.com",
		Role:       model.ProviderRoleAttending,
		IsBookable: true,
	})
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.True(t, p.IsBookable)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	existing := &model.Provider{
		FirstName:  "Amy",
		LastName:   "Stone",
		Email:      "stone@example.com",
		Role:       model.ProviderRoleAttending,
		IsActive:   true,
		IsBookable: true,
	}
	existing.ID = uuid.New()

	store := &stubStore{providers: []*model.Provider{existing}}
	svc := NewService(store, &stubContracts{}, &stubPayers{}, nil)

	bookable := false
	updated, err := svc.Update(context.Background(), existing.ID, &model.UpdateProviderRequest{
		IsBookable: &bookable,
	})
	require.NoError(t, err)

	assert.False(t, updated.IsBookable)
	assert.Equal(t, "Amy", updated.FirstName)
	assert.True(t, updated.IsActive)
	require.Len(t, store.updated, 1)
}

func TestExportCSV(t *testing.T) {
	provider := &model.Provider{
		FirstName:          "Amy",
		LastName:           "Stone",
		Email:              "stone@example.com",
		Role:               model.ProviderRoleAttending,
		NPI:                "1234567890",
		IsActive:           true,
		IsBookable:         true,
		AcceptsNewPatients: true,
	}
	provider.ID = uuid.New()

	blueRidge := &model.Payer{Name: "Blue Ridge Health"}
	blueRidge.ID = uuid.New()
	lakeview := &model.Payer{Name: "Lakeview Mutual"}
	lakeview.ID = uuid.New()
	terminated := &model.Payer{Name: "Former Plan"}
	terminated.ID = uuid.New()

	contracts := &stubContracts{contracts: []*model.Contract{
		{PayerID: blueRidge.ID, Status: model.ContractStatusInNetwork},
		{PayerID: lakeview.ID, Status: model.ContractStatusInNetwork},
		{PayerID: terminated.ID, Status: model.ContractStatusTerminated},
	}}

	svc := NewService(
		&stubStore{providers: []*model.Provider{provider}},
		contracts,
		&stubPayers{payers: []*model.Payer{blueRidge, lakeview, terminated}},
		nil,
	)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf, model.ProviderFilter{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "first_name", records[0][0])
	assert.Equal(t, "payers", records[0][9])

	row := records[1]
	assert.Equal(t, "Stone", row[1])
	assert.Equal(t, "attending", row[3])
	assert.Equal(t, "true", row[5])
	// In-network payer names semicolon-joined; terminated plan excluded.
	assert.Equal(t, "Blue Ridge Health;Lakeview Mutual", row[9])
}

func TestDeactivate(t *testing.T) {
	existing := &model.Provider{IsActive: true}
	existing.ID = uuid.New()
	store := &stubStore{providers: []*model.Provider{existing}}
	svc := NewService(store, &stubContracts{}, &stubPayers{}, nil)

	require.NoError(t, svc.Deactivate(context.Background(), existing.ID))
	require.Len(t, store.deactivated, 1)
	assert.Equal(t, existing.ID, store.deactivated[0])
}
