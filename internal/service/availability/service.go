package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/logger"
	"github.com/meridianpsych/clinic-api/pkg/metrics"
)

const defaultBufferMinutes = 15

type ProviderStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Provider, error)
}

type ScheduleStore interface {
	CreateBlock(ctx context.Context, block *model.WeeklyBlock) error
	DeleteBlock(ctx context.Context, id uuid.UUID) error
	ListBlocks(ctx context.Context, providerID uuid.UUID) ([]*model.WeeklyBlock, error)
	CreateException(ctx context.Context, exc *model.AvailabilityException) error
	DeleteException(ctx context.Context, id uuid.UUID) error
	ListExceptions(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]*model.AvailabilityException, error)
}

type AppointmentStore interface {
	ListForProviderInRange(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]*model.Appointment, error)
}

// Service manages weekly templates and exceptions, and generates
// bookable slots from them.
type Service struct {
	providers    ProviderStore
	schedules    ScheduleStore
	appointments AppointmentStore
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

func NewService(providers ProviderStore, schedules ScheduleStore, appointments AppointmentStore, m *metrics.Metrics, l *logger.Logger) *Service {
	return &Service{
		providers:    providers,
		schedules:    schedules,
		appointments: appointments,
		metrics:      m,
		logger:       l,
	}
}

func (s *Service) AddBlock(ctx context.Context, providerID uuid.UUID, req *model.CreateWeeklyBlockRequest) (*model.WeeklyBlock, error) {
	if _, err := s.providers.Get(ctx, providerID); err != nil {
		return nil, errors.NotFound("provider", err)
	}
	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, errors.BadRequest("invalid start_time", err)
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return nil, errors.BadRequest("invalid end_time", err)
	}
	if end <= start {
		return nil, errors.BadRequest("end_time must be after start_time", nil)
	}

	block := &model.WeeklyBlock{
		ProviderID:  providerID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsRecurring: req.IsRecurring,
	}
	if err := s.schedules.CreateBlock(ctx, block); err != nil {
		return nil, errors.Internal(err)
	}
	return block, nil
}

func (s *Service) RemoveBlock(ctx context.Context, id uuid.UUID) error {
	if err := s.schedules.DeleteBlock(ctx, id); err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (s *Service) ListBlocks(ctx context.Context, providerID uuid.UUID) ([]*model.WeeklyBlock, error) {
	blocks, err := s.schedules.ListBlocks(ctx, providerID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return blocks, nil
}

func (s *Service) AddException(ctx context.Context, providerID uuid.UUID, req *model.CreateExceptionRequest) (*model.AvailabilityException, error) {
	if _, err := s.providers.Get(ctx, providerID); err != nil {
		return nil, errors.NotFound("provider", err)
	}
	switch req.ExceptionType {
	case model.ExceptionCustomHours, model.ExceptionPartialBlock:
		if req.StartTime == nil || req.EndTime == nil {
			return nil, errors.BadRequest("start_time and end_time are required for this exception type", nil)
		}
		start, err := parseClock(*req.StartTime)
		if err != nil {
			return nil, errors.BadRequest("invalid start_time", err)
		}
		end, err := parseClock(*req.EndTime)
		if err != nil {
			return nil, errors.BadRequest("invalid end_time", err)
		}
		if end <= start {
			return nil, errors.BadRequest("end_time must be after start_time", nil)
		}
	}

	exc := &model.AvailabilityException{
		ProviderID:    providerID,
		ExceptionDate: req.ExceptionDate,
		ExceptionType: req.ExceptionType,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Note:          req.Note,
	}
	if err := s.schedules.CreateException(ctx, exc); err != nil {
		return nil, errors.Internal(err)
	}
	return exc, nil
}

func (s *Service) RemoveException(ctx context.Context, id uuid.UUID) error {
	if err := s.schedules.DeleteException(ctx, id); err != nil {
		return errors.Internal(err)
	}
	return nil
}

// GetSlots generates bookable slots for a provider over a date range.
// One exception per date wins; if several exist, full-day suppressions
// take precedence.
func (s *Service) GetSlots(ctx context.Context, providerID uuid.UUID, start, end time.Time, durationMinutes int) ([]*model.Slot, error) {
	if end.Before(start) {
		return nil, errors.BadRequest("end date must not be before start date", nil)
	}
	if durationMinutes <= 0 {
		durationMinutes = 60
	}

	provider, err := s.providers.Get(ctx, providerID)
	if err != nil {
		return nil, errors.NotFound("provider", err)
	}

	// Schedule reads are best effort: a failed read logs and degrades
	// to an empty set so the rest of the range still renders.
	blocks, err := s.schedules.ListBlocks(ctx, providerID)
	if err != nil {
		s.logReadFailure(err, "blocks", providerID)
		blocks = nil
	}
	exceptions, err := s.schedules.ListExceptions(ctx, providerID, start, end)
	if err != nil {
		s.logReadFailure(err, "exceptions", providerID)
		exceptions = nil
	}
	appointments, err := s.appointments.ListForProviderInRange(ctx, providerID, start, end)
	if err != nil {
		s.logReadFailure(err, "appointments", providerID)
		appointments = nil
	}

	excByDate := make(map[string]*model.AvailabilityException)
	for _, exc := range exceptions {
		key := exc.ExceptionDate.Format("2006-01-02")
		if existing, ok := excByDate[key]; ok && fullDay(existing) {
			continue
		}
		excByDate[key] = exc
	}

	bookedByDate := make(map[string]map[string]bool)
	for _, apt := range appointments {
		if apt.Status == model.AppointmentStatusCancelled {
			continue
		}
		key := apt.Date.Format("2006-01-02")
		if bookedByDate[key] == nil {
			bookedByDate[key] = make(map[string]bool)
		}
		bookedByDate[key][apt.Time] = true
	}

	var slots []*model.Slot
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		times, err := daySlots(dayInput{
			date:      d,
			blocks:    blocks,
			exception: excByDate[key],
			booked:    bookedByDate[key],
			duration:  durationMinutes,
			buffer:    defaultBufferMinutes,
		})
		if err != nil {
			s.logReadFailure(err, "day grid", providerID)
			continue
		}
		for _, t := range times {
			slots = append(slots, &model.Slot{
				Date:         key,
				Time:         t,
				ProviderID:   provider.ID,
				ProviderName: provider.FullName(),
				Duration:     durationMinutes,
				IsAvailable:  true,
			})
		}
	}

	if s.metrics != nil {
		s.metrics.SlotsGenerated.Add(float64(len(slots)))
	}
	return slots, nil
}

func (s *Service) logReadFailure(err error, what string, providerID uuid.UUID) {
	if s.logger != nil {
		s.logger.Error(err, "slot generation read failed", "read", what, "provider_id", providerID.String())
	}
}

func fullDay(exc *model.AvailabilityException) bool {
	return exc.ExceptionType == model.ExceptionUnavailable || exc.ExceptionType == model.ExceptionVacation
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
