package booking

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/internal/pms"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/logger"
)

type AppointmentStore interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error)
	ExistsAt(ctx context.Context, providerID uuid.UUID, date time.Time, clock string) (bool, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*model.Appointment, error)
}

type ProviderStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Provider, error)
}

type PatientStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
}

type OutboxStore interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
}

type BookabilityChecker interface {
	IsBookable(ctx context.Context, providerID, payerID uuid.UUID, date time.Time) (*model.BookableProvider, error)
}

// PMSClient mirrors bookings into the practice management system.
type PMSClient interface {
	CreateAppointment(ctx context.Context, req *pms.AppointmentRequest) (*pms.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, pmsAppointmentID string) error
}

// Service books and cancels appointments. Insurance bookings are
// checked against the payer's bookable roster for the service date
// before any row is written.
type Service struct {
	appointments AppointmentStore
	providers    ProviderStore
	patients     PatientStore
	outbox       OutboxStore
	bookability  BookabilityChecker
	pmsClient    PMSClient
	logger       *logger.Logger
}

func NewService(appointments AppointmentStore, providers ProviderStore, patients PatientStore, outbox OutboxStore, bookability BookabilityChecker, pmsClient PMSClient, l *logger.Logger) *Service {
	return &Service{
		appointments: appointments,
		providers:    providers,
		patients:     patients,
		outbox:       outbox,
		bookability:  bookability,
		pmsClient:    pmsClient,
		logger:       l,
	}
}

// Book creates an appointment. Replays carrying a known idempotency
// key return the original appointment instead of double-booking.
func (s *Service) Book(ctx context.Context, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, errors.BadRequest("invalid date", err)
	}

	if req.IdempotencyKey != "" {
		existing, err := s.appointments.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, errors.Internal(err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	provider, err := s.providers.Get(ctx, req.ProviderID)
	if err != nil {
		return nil, errors.NotFound("provider", err)
	}
	if !provider.Schedulable() {
		return nil, errors.Conflict("provider is not accepting bookings", nil)
	}
	if req.Telehealth && !provider.Telehealth {
		return nil, errors.Conflict("provider does not offer telehealth", nil)
	}

	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		return nil, errors.NotFound("patient", err)
	}

	if req.PayerID != nil {
		entry, err := s.bookability.IsBookable(ctx, req.ProviderID, *req.PayerID, date)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, errors.Conflict("provider is not bookable for this payer on the requested date", nil)
		}
	}

	taken, err := s.appointments.ExistsAt(ctx, req.ProviderID, date, req.Time)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if taken {
		return nil, errors.Conflict("time slot is already booked", nil)
	}

	apt := &model.Appointment{
		ProviderID:      req.ProviderID,
		PatientID:       req.PatientID,
		PayerID:         req.PayerID,
		Date:            date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		Status:          model.AppointmentStatusScheduled,
		Telehealth:      req.Telehealth,
		Notes:           req.Notes,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		apt.IdempotencyKey = &key
	}

	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, errors.Internal(err)
	}

	s.mirrorToPMS(ctx, apt, provider, patient)
	s.publish(ctx, model.EventAppointmentBooked, apt)
	return apt, nil
}

// Cancel marks an appointment cancelled and mirrors the cancellation
// into the PMS when it holds the appointment.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("appointment", err)
	}
	if apt.Status == model.AppointmentStatusCancelled {
		return apt, nil
	}
	if apt.Status == model.AppointmentStatusCompleted {
		return nil, errors.Conflict("completed appointments cannot be cancelled", nil)
	}

	apt.Status = model.AppointmentStatusCancelled
	if reason != "" {
		apt.CancelReason = &reason
	}
	if err := s.appointments.Update(ctx, apt); err != nil {
		return nil, errors.Internal(err)
	}

	if apt.PMSAppointmentID != nil && s.pmsClient != nil {
		if err := s.pmsClient.CancelAppointment(ctx, *apt.PMSAppointmentID); err != nil && s.logger != nil {
			s.logger.Error(err, "pms cancellation failed", "appointment_id", apt.ID.String())
		}
	}

	s.publish(ctx, model.EventAppointmentCancelled, apt)
	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("appointment", err)
	}
	return apt, nil
}

func (s *Service) List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	appointments, err := s.appointments.List(ctx, filter)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return appointments, nil
}

// mirrorToPMS pushes the booking to the PMS. Failures are logged, not
// returned: the local row is authoritative for scheduling and a later
// reconciliation can repair the mirror.
func (s *Service) mirrorToPMS(ctx context.Context, apt *model.Appointment, provider *model.Provider, patient *model.Patient) {
	if s.pmsClient == nil {
		return
	}
	resp, err := s.pmsClient.CreateAppointment(ctx, &pms.AppointmentRequest{
		PractitionerEmail: provider.Email,
		PatientEmail:      patient.Email,
		Date:              apt.Date.Format("2006-01-02"),
		Time:              apt.Time,
		DurationMinutes:   apt.DurationMinutes,
		Telehealth:        apt.Telehealth,
		Notes:             apt.Notes,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error(err, "pms mirror failed", "appointment_id", apt.ID.String())
		}
		return
	}
	apt.PMSAppointmentID = &resp.ID
	if err := s.appointments.Update(ctx, apt); err != nil && s.logger != nil {
		s.logger.Error(err, "failed to store pms appointment id", "appointment_id", apt.ID.String())
	}
}

func (s *Service) publish(ctx context.Context, eventType string, apt *model.Appointment) {
	payload, err := json.Marshal(apt)
	if err != nil {
		return
	}
	if err := s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}); err != nil && s.logger != nil {
		s.logger.Error(err, "failed to enqueue outbox event", "event_type", eventType)
	}
}
