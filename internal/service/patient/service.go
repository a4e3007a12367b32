package patient

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/logger"
)

type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context) ([]*model.Patient, error)
	GetEngagement(ctx context.Context, patientID uuid.UUID) (*model.EngagementRecord, error)
	UpsertEngagementTx(ctx context.Context, tx *sqlx.Tx, rec *model.EngagementRecord) error
	InsertEngagementChangeTx(ctx context.Context, tx *sqlx.Tx, change *model.EngagementStatusChange) error
	ListEngagementHistory(ctx context.Context, patientID uuid.UUID) ([]*model.EngagementStatusChange, error)
	ListRoster(ctx context.Context) ([]*model.RosterEntry, error)
	RefreshRoster(ctx context.Context) error
}

type OutboxStore interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error
}

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error
}

// Service owns the patient engagement state machine. Any status can
// move to any other valid status; the interesting work is the audit
// trail and the downstream notifications.
type Service struct {
	patients Store
	outbox   OutboxStore
	tx       TxRunner
	logger   *logger.Logger
}

func NewService(patients Store, outbox OutboxStore, tx TxRunner, l *logger.Logger) *Service {
	return &Service{patients: patients, outbox: outbox, tx: tx, logger: l}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("patient", err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return patients, nil
}

// CurrentStatus returns the patient's engagement status. A patient
// with no engagement row is implicitly active.
func (s *Service) CurrentStatus(ctx context.Context, patientID uuid.UUID) (model.EngagementStatus, error) {
	rec, err := s.patients.GetEngagement(ctx, patientID)
	if err != nil {
		return "", errors.Internal(err)
	}
	if rec == nil {
		return model.EngagementActive, nil
	}
	return rec.Status, nil
}

// ChangeStatus transitions a patient's engagement status. The upsert,
// the history row and the outbox event commit in one transaction; a
// no-op transition (same status) writes nothing. actorIsAdmin controls
// whether the ops list is alerted when the patient leaves active.
func (s *Service) ChangeStatus(ctx context.Context, patientID uuid.UUID, req *model.ChangeEngagementStatusRequest, actorIsAdmin bool) (*model.ChangeEngagementStatusResult, error) {
	if !req.Status.Valid() {
		return nil, errors.BadRequest("invalid engagement status", nil)
	}
	if req.Status != model.EngagementActive && req.ChangeReason == "" {
		return nil, errors.BadRequest("change_reason is required when leaving active", nil)
	}

	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, errors.NotFound("patient", err)
	}

	current, err := s.CurrentStatus(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if current == req.Status {
		return &model.ChangeEngagementStatusResult{Changed: false, Status: current}, nil
	}

	var reason *string
	if req.ChangeReason != "" {
		reason = &req.ChangeReason
	}
	now := time.Now()

	event := model.EngagementChangedEvent{
		PatientID:      patientID,
		FromStatus:     current,
		ToStatus:       req.Status,
		ChangeReason:   req.ChangeReason,
		ChangedByEmail: req.ChangedByEmail,
		ChangedAt:      now,
		NotifyAdmins:   !actorIsAdmin && current == model.EngagementActive && req.Status != model.EngagementActive,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Internal(err)
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.patients.UpsertEngagementTx(ctx, tx, &model.EngagementRecord{
			PatientID:      patientID,
			Status:         req.Status,
			ChangeReason:   reason,
			ChangedByEmail: req.ChangedByEmail,
			UpdatedAt:      now,
		}); err != nil {
			return err
		}
		if err := s.patients.InsertEngagementChangeTx(ctx, tx, &model.EngagementStatusChange{
			PatientID:      patientID,
			FromStatus:     current,
			ToStatus:       req.Status,
			ChangeReason:   reason,
			ChangedByEmail: req.ChangedByEmail,
		}); err != nil {
			return err
		}
		return s.outbox.CreateTx(ctx, tx, &model.OutboxEvent{
			EventType: model.EventEngagementChanged,
			Payload:   payload,
		})
	})
	if err != nil {
		return nil, errors.Internal(err)
	}

	// Roster refresh is synchronous but non-fatal; the next change
	// will catch the view up if this one fails.
	if err := s.patients.RefreshRoster(ctx); err != nil && s.logger != nil {
		s.logger.Error(err, "roster refresh failed", "patient_id", patientID.String())
	}

	return &model.ChangeEngagementStatusResult{Changed: true, Status: req.Status}, nil
}

func (s *Service) History(ctx context.Context, patientID uuid.UUID) ([]*model.EngagementStatusChange, error) {
	history, err := s.patients.ListEngagementHistory(ctx, patientID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return history, nil
}

func (s *Service) Roster(ctx context.Context) ([]*model.RosterEntry, error) {
	roster, err := s.patients.ListRoster(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return roster, nil
}
