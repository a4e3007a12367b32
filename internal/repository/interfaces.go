package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meridianpsych/clinic-api/internal/model"
)

type ProviderRepository interface {
	Create(ctx context.Context, provider *model.Provider) error
	Get(ctx context.Context, id uuid.UUID) (*model.Provider, error)
	Update(ctx context.Context, provider *model.Provider) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.ProviderFilter) ([]*model.Provider, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Provider, error)
}

type PayerRepository interface {
	Create(ctx context.Context, payer *model.Payer) error
	Get(ctx context.Context, id uuid.UUID) (*model.Payer, error)
	Update(ctx context.Context, payer *model.Payer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Payer, error)
}

type ContractRepository interface {
	Create(ctx context.Context, contract *model.Contract) error
	Get(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	Update(ctx context.Context, contract *model.Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForPayer(ctx context.Context, payerID uuid.UUID) ([]*model.Contract, error)
	ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.Contract, error)
}

type SupervisionRepository interface {
	Create(ctx context.Context, sup *model.Supervision) error
	Get(ctx context.Context, id uuid.UUID) (*model.Supervision, error)
	End(ctx context.Context, id uuid.UUID, endDate time.Time) error
	ListForPayer(ctx context.Context, payerID uuid.UUID) ([]*model.Supervision, error)
	ListForSupervisee(ctx context.Context, superviseeID uuid.UUID) ([]*model.Supervision, error)
}

type AvailabilityRepository interface {
	CreateBlock(ctx context.Context, block *model.WeeklyBlock) error
	DeleteBlock(ctx context.Context, id uuid.UUID) error
	ListBlocks(ctx context.Context, providerID uuid.UUID) ([]*model.WeeklyBlock, error)
	CreateException(ctx context.Context, exc *model.AvailabilityException) error
	DeleteException(ctx context.Context, id uuid.UUID) error
	ListExceptions(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]*model.AvailabilityException, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error)
	ListForProviderInRange(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]*model.Appointment, error)
	ExistsAt(ctx context.Context, providerID uuid.UUID, date time.Time, clock string) (bool, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*model.Appointment, error)
}

type PatientRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context) ([]*model.Patient, error)
	GetEngagement(ctx context.Context, patientID uuid.UUID) (*model.EngagementRecord, error)
	UpsertEngagementTx(ctx context.Context, tx *sqlx.Tx, rec *model.EngagementRecord) error
	InsertEngagementChangeTx(ctx context.Context, tx *sqlx.Tx, change *model.EngagementStatusChange) error
	ListEngagementHistory(ctx context.Context, patientID uuid.UUID) ([]*model.EngagementStatusChange, error)
	ListRoster(ctx context.Context) ([]*model.RosterEntry, error)
	RefreshRoster(ctx context.Context) error
}

type PartnerRepository interface {
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

type ArticleRepository interface {
	Create(ctx context.Context, draft *model.ArticleDraft) error
	Get(ctx context.Context, id uuid.UUID) (*model.ArticleDraft, error)
	Update(ctx context.Context, draft *model.ArticleDraft) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.ArticleDraft, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errorMessage *string) error
}

// DiagnosticsRepository runs the read-only payer sanity-check queries.
type DiagnosticsRepository interface {
	ListUncoveredSupervisors(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.UncoveredSupervisor, error)
	ListUnsupervisedResidents(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.UnsupervisedResident, error)
	ListBlockedProviders(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.BlockedProvider, error)
	ListPendingContracts(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.PendingContract, error)
}
