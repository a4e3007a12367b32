package payer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/logger"
)

type Store interface {
	Create(ctx context.Context, payer *model.Payer) error
	Get(ctx context.Context, id uuid.UUID) (*model.Payer, error)
	Update(ctx context.Context, payer *model.Payer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Payer, error)
}

type ContractStore interface {
	Create(ctx context.Context, contract *model.Contract) error
	Get(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	Update(ctx context.Context, contract *model.Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForPayer(ctx context.Context, payerID uuid.UUID) ([]*model.Contract, error)
}

type SupervisionStore interface {
	Create(ctx context.Context, sup *model.Supervision) error
	Get(ctx context.Context, id uuid.UUID) (*model.Supervision, error)
	End(ctx context.Context, id uuid.UUID, endDate time.Time) error
	ListForPayer(ctx context.Context, payerID uuid.UUID) ([]*model.Supervision, error)
}

type ProviderStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Provider, error)
}

// Service owns payer configuration, per-payer contracts and the
// supervision links that let residents bill under attendings.
type Service struct {
	payers       Store
	contracts    ContractStore
	supervisions SupervisionStore
	providers    ProviderStore
	logger       *logger.Logger
}

func NewService(payers Store, contracts ContractStore, supervisions SupervisionStore, providers ProviderStore, l *logger.Logger) *Service {
	return &Service{
		payers:       payers,
		contracts:    contracts,
		supervisions: supervisions,
		providers:    providers,
		logger:       l,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePayerRequest) (*model.Payer, error) {
	status := req.StatusCode
	if status == "" {
		status = model.PayerStatusPending
	}
	payer := &model.Payer{
		Name:              req.Name,
		PayerType:         req.PayerType,
		State:             req.State,
		StatusCode:        status,
		EffectiveDate:     req.EffectiveDate,
		RequiresAttending: req.RequiresAttending,
		AllowsSupervised:  req.AllowsSupervised,
	}
	if err := s.payers.Create(ctx, payer); err != nil {
		return nil, errors.Internal(err)
	}
	return payer, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Payer, error) {
	payer, err := s.payers.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("payer", err)
	}
	return payer, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePayerRequest) (*model.Payer, error) {
	payer, err := s.payers.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("payer", err)
	}

	if req.Name != nil {
		payer.Name = *req.Name
	}
	if req.PayerType != nil {
		payer.PayerType = *req.PayerType
	}
	if req.State != nil {
		payer.State = *req.State
	}
	if req.StatusCode != nil {
		payer.StatusCode = *req.StatusCode
	}
	if req.EffectiveDate != nil {
		payer.EffectiveDate = req.EffectiveDate
	}
	if req.RequiresAttending != nil {
		payer.RequiresAttending = *req.RequiresAttending
	}
	if req.AllowsSupervised != nil {
		payer.AllowsSupervised = *req.AllowsSupervised
	}

	if err := s.payers.Update(ctx, payer); err != nil {
		return nil, errors.Internal(err)
	}
	return payer, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.payers.Get(ctx, id); err != nil {
		return errors.NotFound("payer", err)
	}
	if err := s.payers.Delete(ctx, id); err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Payer, error) {
	payers, err := s.payers.List(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return payers, nil
}

func (s *Service) CreateContract(ctx context.Context, payerID uuid.UUID, req *model.CreateContractRequest) (*model.Contract, error) {
	if _, err := s.payers.Get(ctx, payerID); err != nil {
		return nil, errors.NotFound("payer", err)
	}
	if _, err := s.providers.Get(ctx, req.ProviderID); err != nil {
		return nil, errors.NotFound("provider", err)
	}
	if req.ExpirationDate != nil && req.ExpirationDate.Before(req.EffectiveDate) {
		return nil, errors.BadRequest("expiration_date precedes effective_date", nil)
	}
	if req.BookableFromDate != nil && req.BookableFromDate.Before(req.EffectiveDate) {
		return nil, errors.BadRequest("bookable_from_date precedes effective_date", nil)
	}

	contract := &model.Contract{
		ProviderID:       req.ProviderID,
		PayerID:          payerID,
		Status:           req.Status,
		EffectiveDate:    req.EffectiveDate,
		ExpirationDate:   req.ExpirationDate,
		BookableFromDate: req.BookableFromDate,
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, errors.Internal(err)
	}
	return contract, nil
}

func (s *Service) UpdateContract(ctx context.Context, id uuid.UUID, req *model.UpdateContractRequest) (*model.Contract, error) {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("contract", err)
	}

	if req.Status != nil {
		contract.Status = *req.Status
	}
	if req.EffectiveDate != nil {
		contract.EffectiveDate = *req.EffectiveDate
	}
	if req.ExpirationDate != nil {
		contract.ExpirationDate = req.ExpirationDate
	}
	if req.BookableFromDate != nil {
		contract.BookableFromDate = req.BookableFromDate
	}
	if contract.ExpirationDate != nil && contract.ExpirationDate.Before(contract.EffectiveDate) {
		return nil, errors.BadRequest("expiration_date precedes effective_date", nil)
	}

	if err := s.contracts.Update(ctx, contract); err != nil {
		return nil, errors.Internal(err)
	}
	return contract, nil
}

func (s *Service) DeleteContract(ctx context.Context, id uuid.UUID) error {
	if _, err := s.contracts.Get(ctx, id); err != nil {
		return errors.NotFound("contract", err)
	}
	if err := s.contracts.Delete(ctx, id); err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (s *Service) ListContracts(ctx context.Context, payerID uuid.UUID) ([]*model.Contract, error) {
	contracts, err := s.contracts.ListForPayer(ctx, payerID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return contracts, nil
}

// CreateSupervision links a supervisee to an attending-level
// supervisor for one payer.
func (s *Service) CreateSupervision(ctx context.Context, superviseeID uuid.UUID, req *model.CreateSupervisionRequest) (*model.Supervision, error) {
	if req.SupervisorID == superviseeID {
		return nil, errors.BadRequest("provider cannot supervise themselves", nil)
	}
	supervisor, err := s.providers.Get(ctx, req.SupervisorID)
	if err != nil {
		return nil, errors.NotFound("supervisor", err)
	}
	if !supervisor.Role.AttendingLevel() {
		return nil, errors.BadRequest("supervisor must be an attending-level provider", nil)
	}
	if _, err := s.providers.Get(ctx, superviseeID); err != nil {
		return nil, errors.NotFound("supervisee", err)
	}
	if _, err := s.payers.Get(ctx, req.PayerID); err != nil {
		return nil, errors.NotFound("payer", err)
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, errors.BadRequest("end_date precedes start_date", nil)
	}

	sup := &model.Supervision{
		SupervisorID: req.SupervisorID,
		SuperviseeID: superviseeID,
		PayerID:      req.PayerID,
		IsActive:     true,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	if err := s.supervisions.Create(ctx, sup); err != nil {
		return nil, errors.Internal(err)
	}
	return sup, nil
}

// EndSupervision closes a supervision link as of the given date.
func (s *Service) EndSupervision(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	if _, err := s.supervisions.Get(ctx, id); err != nil {
		return errors.NotFound("supervision", err)
	}
	if err := s.supervisions.End(ctx, id, endDate); err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (s *Service) ListSupervisions(ctx context.Context, payerID uuid.UUID) ([]*model.Supervision, error) {
	sups, err := s.supervisions.ListForPayer(ctx, payerID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return sups, nil
}
