package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/logger"
)

type Store interface {
	Create(ctx context.Context, provider *model.Provider) error
	Get(ctx context.Context, id uuid.UUID) (*model.Provider, error)
	Update(ctx context.Context, provider *model.Provider) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.ProviderFilter) ([]*model.Provider, error)
}

type ContractStore interface {
	Create(ctx context.Context, contract *model.Contract) error
	Get(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	Update(ctx context.Context, contract *model.Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.Contract, error)
}

type PayerNamer interface {
	List(ctx context.Context) ([]*model.Payer, error)
}

// Service owns provider CRUD, their contracts and supervision links,
// and the roster CSV export.
type Service struct {
	providers Store
	contracts ContractStore
	payers    PayerNamer
	logger    *logger.Logger
}

func NewService(providers Store, contracts ContractStore, payers PayerNamer, l *logger.Logger) *Service {
	return &Service{providers: providers, contracts: contracts, payers: payers, logger: l}
}

func (s *Service) Create(ctx context.Context, req *model.CreateProviderRequest) (*model.Provider, error) {
	provider := &model.Provider{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Role:               req.Role,
		NPI:                req.NPI,
		IsActive:           true,
		IsBookable:         req.IsBookable,
		AcceptsNewPatients: req.AcceptsNewPatients,
		Telehealth:         req.Telehealth,
	}
	if err := s.providers.Create(ctx, provider); err != nil {
		return nil, errors.Internal(err)
	}
	return provider, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	provider, err := s.providers.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("provider", err)
	}
	return provider, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProviderRequest) (*model.Provider, error) {
	provider, err := s.providers.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("provider", err)
	}

	if req.FirstName != nil {
		provider.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		provider.LastName = *req.LastName
	}
	if req.Email != nil {
		provider.Email = *req.Email
	}
	if req.Role != nil {
		provider.Role = *req.Role
	}
	if req.NPI != nil {
		provider.NPI = *req.NPI
	}
	if req.IsActive != nil {
		provider.IsActive = *req.IsActive
	}
	if req.IsBookable != nil {
		provider.IsBookable = *req.IsBookable
	}
	if req.AcceptsNewPatients != nil {
		provider.AcceptsNewPatients = *req.AcceptsNewPatients
	}
	if req.Telehealth != nil {
		provider.Telehealth = *req.Telehealth
	}

	if err := s.providers.Update(ctx, provider); err != nil {
		return nil, errors.Internal(err)
	}
	return provider, nil
}

// Deactivate soft-disables a provider. Rows are never deleted.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.providers.Get(ctx, id); err != nil {
		return errors.NotFound("provider", err)
	}
	if err := s.providers.Deactivate(ctx, id); err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter model.ProviderFilter) ([]*model.Provider, error) {
	providers, err := s.providers.List(ctx, filter)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return providers, nil
}

// ExportCSV writes the provider roster as CSV. Multi-valued fields
// (payer names) are joined with semicolons inside one quoted cell.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, filter model.ProviderFilter) error {
	providers, err := s.providers.List(ctx, filter)
	if err != nil {
		return errors.Internal(err)
	}

	payerNames := make(map[uuid.UUID]string)
	payers, err := s.payers.List(ctx)
	if err != nil {
		return errors.Internal(err)
	}
	for _, p := range payers {
		payerNames[p.ID] = p.Name
	}

	cw := csv.NewWriter(w)
	header := []string{
		"first_name", "last_name", "email", "role", "npi",
		"is_active", "is_bookable", "accepts_new_patients", "telehealth",
		"payers",
	}
	if err := cw.Write(header); err != nil {
		return errors.Internal(err)
	}

	for _, p := range providers {
		contracts, err := s.contracts.ListForProvider(ctx, p.ID)
		if err != nil {
			return errors.Internal(err)
		}
		var names []string
		for _, c := range contracts {
			if c.Status != model.ContractStatusInNetwork {
				continue
			}
			if name, ok := payerNames[c.PayerID]; ok {
				names = append(names, name)
			}
		}

		row := []string{
			p.FirstName,
			p.LastName,
			p.Email,
			string(p.Role),
			p.NPI,
			strconv.FormatBool(p.IsActive),
			strconv.FormatBool(p.IsBookable),
			strconv.FormatBool(p.AcceptsNewPatients),
			strconv.FormatBool(p.Telehealth),
			strings.Join(names, ";"),
		}
		if err := cw.Write(row); err != nil {
			return errors.Internal(err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Internal(fmt.Errorf("csv export failed: %w", err))
	}
	return nil
}
