package bookability

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/logger"
	"github.com/meridianpsych/clinic-api/pkg/metrics"
)

// Narrow read-side stores so tests can stub exactly what Resolve touches.
type PayerStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Payer, error)
}

type ContractStore interface {
	ListForPayer(ctx context.Context, payerID uuid.UUID) ([]*model.Contract, error)
}

type SupervisionStore interface {
	ListForPayer(ctx context.Context, payerID uuid.UUID) ([]*model.Supervision, error)
}

type ProviderStore interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Provider, error)
}

// Service answers "who can be booked under payer X on date D". Payer
// billing rules change rarely, so the payer row is cached briefly to
// keep slot pages from hammering the payers table.
type Service struct {
	payers       PayerStore
	contracts    ContractStore
	supervisions SupervisionStore
	providers    ProviderStore
	payerCache   *gocache.Cache
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

const payerCacheTTL = 60 * time.Second

func NewService(payers PayerStore, contracts ContractStore, supervisions SupervisionStore, providers ProviderStore, m *metrics.Metrics, l *logger.Logger) *Service {
	return &Service{
		payers:       payers,
		contracts:    contracts,
		supervisions: supervisions,
		providers:    providers,
		payerCache:   gocache.New(payerCacheTTL, 5*time.Minute),
		metrics:      m,
		logger:       l,
	}
}

// Resolve computes the bookable roster for a payer on a service date.
// Direct entries come from the provider's own covering contract;
// supervised entries route residents through an attending whose
// contract covers the date. A provider reachable both ways appears
// once, as direct.
func (s *Service) Resolve(ctx context.Context, payerID uuid.UUID, date time.Time) ([]*model.BookableProvider, error) {
	payer, err := s.getPayer(ctx, payerID)
	if err != nil {
		return nil, err
	}

	contracts, err := s.contracts.ListForPayer(ctx, payerID)
	if err != nil {
		return nil, errors.Internal(err)
	}

	covering := make(map[uuid.UUID]*model.Contract)
	for _, c := range contracts {
		if ContractCoversDate(c, date) {
			covering[c.ProviderID] = c
		}
	}

	// The supervised billing path exists only for payers that both
	// require attending oversight and allow supervised claims. Flipping
	// either flag removes every supervised entry.
	var activeSups []*model.Supervision
	if payer.RequiresAttending && payer.AllowsSupervised {
		sups, err := s.supervisions.ListForPayer(ctx, payerID)
		if err != nil {
			return nil, errors.Internal(err)
		}
		for _, sup := range sups {
			if SupervisionActiveOn(sup, date) {
				activeSups = append(activeSups, sup)
			}
		}
	}

	providerByID, err := s.loadProviders(ctx, covering, activeSups)
	if err != nil {
		return nil, errors.Internal(err)
	}

	entries := make(map[uuid.UUID]*model.BookableProvider)

	for providerID, contract := range covering {
		p, ok := providerByID[providerID]
		if !ok || !p.Schedulable() {
			continue
		}
		// A payer that requires attending oversight will not accept
		// claims billed directly by a non-attending-level provider,
		// covering contract or not.
		if payer.RequiresAttending && !p.Role.AttendingLevel() {
			continue
		}
		entries[p.ID] = &model.BookableProvider{
			ProviderID:        p.ID,
			FirstName:         p.FirstName,
			LastName:          p.LastName,
			Role:              p.Role,
			NetworkStatus:     model.NetworkStatusDirect,
			BillingProviderID: p.ID,
			EffectiveDate:     contract.EffectiveDate,
			ExpirationDate:    contract.ExpirationDate,
			BookableFromDate:  contract.BookableFromDate,
		}
	}

	for _, sup := range activeSups {
		supervisorContract, ok := covering[sup.SupervisorID]
		if !ok {
			// Supervisor has no covering contract, so the resident has
			// no billing path. Surfaced by payer diagnostics.
			continue
		}
		supervisor, ok := providerByID[sup.SupervisorID]
		if !ok {
			continue
		}
		resident, ok := providerByID[sup.SuperviseeID]
		if !ok || !resident.Schedulable() {
			continue
		}
		if existing, ok := entries[resident.ID]; ok {
			if existing.NetworkStatus == model.NetworkStatusSupervised {
				existing.SupervisingAttendings = append(existing.SupervisingAttendings, supervisor.FullName())
			}
			continue
		}
		entries[resident.ID] = &model.BookableProvider{
			ProviderID:            resident.ID,
			FirstName:             resident.FirstName,
			LastName:              resident.LastName,
			Role:                  resident.Role,
			NetworkStatus:         model.NetworkStatusSupervised,
			BillingProviderID:     sup.SupervisorID,
			EffectiveDate:         supervisorContract.EffectiveDate,
			ExpirationDate:        supervisorContract.ExpirationDate,
			BookableFromDate:      supervisorContract.BookableFromDate,
			SupervisingAttendings: []string{supervisor.FullName()},
		}
	}

	result := make([]*model.BookableProvider, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].FirstName < result[j].FirstName
	})

	if s.metrics != nil {
		for _, e := range result {
			s.metrics.BookabilityResolutions.WithLabelValues(string(e.NetworkStatus)).Inc()
		}
	}
	return result, nil
}

// IsBookable reports whether a single provider is bookable under the
// payer on the date, and through which path. Used by the booking flow.
func (s *Service) IsBookable(ctx context.Context, providerID, payerID uuid.UUID, date time.Time) (*model.BookableProvider, error) {
	roster, err := s.Resolve(ctx, payerID, date)
	if err != nil {
		return nil, err
	}
	for _, e := range roster {
		if e.ProviderID == providerID {
			return e, nil
		}
	}
	return nil, nil
}

func (s *Service) getPayer(ctx context.Context, id uuid.UUID) (*model.Payer, error) {
	if cached, ok := s.payerCache.Get(id.String()); ok {
		return cached.(*model.Payer), nil
	}
	payer, err := s.payers.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("payer", err)
	}
	s.payerCache.Set(id.String(), payer, payerCacheTTL)
	return payer, nil
}

func (s *Service) loadProviders(ctx context.Context, covering map[uuid.UUID]*model.Contract, sups []*model.Supervision) (map[uuid.UUID]*model.Provider, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for id := range covering {
		add(id)
	}
	for _, sup := range sups {
		add(sup.SupervisorID)
		add(sup.SuperviseeID)
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*model.Provider{}, nil
	}
	providers, err := s.providers.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Provider, len(providers))
	for _, p := range providers {
		byID[p.ID] = p
	}
	return byID, nil
}
