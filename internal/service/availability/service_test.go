package availability

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
)

type stubProviderStore struct {
	provider *model.Provider
}

func (s *stubProviderStore) Get(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	return s.provider, nil
}

type stubScheduleStore struct {
	blocks            []*model.WeeklyBlock
	exceptions        []*model.AvailabilityException
	created           []*model.WeeklyBlock
	listBlocksErr     error
	listExceptionsErr error
}

func (s *stubScheduleStore) CreateBlock(ctx context.Context, block *model.WeeklyBlock) error {
	s.created = append(s.created, block)
	return nil
}

func (s *stubScheduleStore) DeleteBlock(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubScheduleStore) ListBlocks(ctx context.Context, providerID uuid.UUID) ([]*model.WeeklyBlock, error) {
	if s.listBlocksErr != nil {
		return nil, s.listBlocksErr
	}
	return s.blocks, nil
}

func (s *stubScheduleStore) CreateException(ctx context.Context, exc *model.AvailabilityException) error {
	s.exceptions = append(s.exceptions, exc)
	return nil
}

func (s *stubScheduleStore) DeleteException(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubScheduleStore) ListExceptions(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]*model.AvailabilityException, error) {
	if s.listExceptionsErr != nil {
		return nil, s.listExceptionsErr
	}
	return s.exceptions, nil
}

type stubAppointmentStore struct {
	appointments []*model.Appointment
	listErr      error
}

func (s *stubAppointmentStore) ListForProviderInRange(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.appointments, nil
}

func testProvider() *model.Provider {
	p := &model.Provider{FirstName: "Amy", LastName: "Stone"}
	p.ID = uuid.New()
	return p
}

func TestGetSlotsAcrossRange(t *testing.T) {
	provider := testProvider()
	// Monday and Tuesday of the same week.
	mon := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	tue := mon.AddDate(0, 0, 1)

	schedules := &stubScheduleStore{
		blocks: []*model.WeeklyBlock{
			{DayOfWeek: int(time.Monday), StartTime: "09:00", EndTime: "12:00"},
			{DayOfWeek: int(time.Tuesday), StartTime: "13:00", EndTime: "16:00"},
		},
		exceptions: []*model.AvailabilityException{
			{ExceptionDate: tue, ExceptionType: model.ExceptionVacation},
		},
	}
	appointments := &stubAppointmentStore{
		appointments: []*model.Appointment{
			{Date: mon, Time: "09:00", Status: model.AppointmentStatusScheduled},
		},
	}

	svc := NewService(&stubProviderStore{provider: provider}, schedules, appointments, nil, nil)

	slots, err := svc.GetSlots(context.Background(), provider.ID, mon, tue, 60)
	require.NoError(t, err)

	// Monday 09:00 is booked, Tuesday is suppressed by vacation, so
	// only Monday 10:15 remains.
	require.Len(t, slots, 1)
	assert.Equal(t, "2025-06-16", slots[0].Date)
	assert.Equal(t, "10:15", slots[0].Time)
	assert.Equal(t, "Amy Stone", slots[0].ProviderName)
	assert.Equal(t, 60, slots[0].Duration)
	assert.True(t, slots[0].IsAvailable)
}

func TestGetSlotsCancelledAppointmentsDoNotBlock(t *testing.T) {
	provider := testProvider()
	mon := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	schedules := &stubScheduleStore{
		blocks: []*model.WeeklyBlock{
			{DayOfWeek: int(time.Monday), StartTime: "09:00", EndTime: "11:00"},
		},
	}
	appointments := &stubAppointmentStore{
		appointments: []*model.Appointment{
			{Date: mon, Time: "09:00", Status: model.AppointmentStatusCancelled},
		},
	}

	svc := NewService(&stubProviderStore{provider: provider}, schedules, appointments, nil, nil)

	slots, err := svc.GetSlots(context.Background(), provider.ID, mon, mon, 60)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "09:00", slots[0].Time)
}

// Failed schedule reads degrade to empty sets instead of failing the
// request: the template still renders without the exception or booked
// filters, and a failed block read yields an empty day.
func TestGetSlotsDegradesOnReadFailures(t *testing.T) {
	provider := testProvider()
	mon := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	schedules := &stubScheduleStore{
		blocks: []*model.WeeklyBlock{
			{DayOfWeek: int(time.Monday), StartTime: "09:00", EndTime: "12:00"},
		},
		exceptions: []*model.AvailabilityException{
			{ExceptionDate: mon, ExceptionType: model.ExceptionVacation},
		},
		listExceptionsErr: stderrors.New("exceptions table unavailable"),
	}
	appointments := &stubAppointmentStore{
		appointments: []*model.Appointment{
			{Date: mon, Time: "09:00", Status: model.AppointmentStatusScheduled},
		},
		listErr: stderrors.New("appointments table unavailable"),
	}

	svc := NewService(&stubProviderStore{provider: provider}, schedules, appointments, nil, nil)

	slots, err := svc.GetSlots(context.Background(), provider.ID, mon, mon, 60)
	require.NoError(t, err)

	// Neither the vacation nor the booking applies, so the full grid
	// survives.
	require.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "10:15", slots[1].Time)

	schedules.listBlocksErr = stderrors.New("availability table unavailable")
	slots, err = svc.GetSlots(context.Background(), provider.ID, mon, mon, 60)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetSlotsRejectsInvertedRange(t *testing.T) {
	provider := testProvider()
	svc := NewService(&stubProviderStore{provider: provider}, &stubScheduleStore{}, &stubAppointmentStore{}, nil, nil)

	start := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	_, err := svc.GetSlots(context.Background(), provider.ID, start, start.AddDate(0, 0, -1), 60)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)
}

func TestAddBlockValidatesWindow(t *testing.T) {
	provider := testProvider()
	schedules := &stubScheduleStore{}
	svc := NewService(&stubProviderStore{provider: provider}, schedules, &stubAppointmentStore{}, nil, nil)

	day := int(time.Monday)
	_, err := svc.AddBlock(context.Background(), provider.ID, &model.CreateWeeklyBlockRequest{
		DayOfWeek: &day,
		StartTime: "12:00",
		EndTime:   "09:00",
	})
	require.Error(t, err)
	assert.Empty(t, schedules.created)

	block, err := svc.AddBlock(context.Background(), provider.ID, &model.CreateWeeklyBlockRequest{
		DayOfWeek:   &day,
		StartTime:   "09:00",
		EndTime:     "12:00",
		IsRecurring: true,
	})
	require.NoError(t, err)
	assert.Equal(t, provider.ID, block.ProviderID)
	require.Len(t, schedules.created, 1)
}

func TestAddExceptionRequiresTimesForPartialBlock(t *testing.T) {
	provider := testProvider()
	svc := NewService(&stubProviderStore{provider: provider}, &stubScheduleStore{}, &stubAppointmentStore{}, nil, nil)

	_, err := svc.AddException(context.Background(), provider.ID, &model.CreateExceptionRequest{
		ExceptionDate: time.Now(),
		ExceptionType: model.ExceptionPartialBlock,
	})
	require.Error(t, err)

	start, end := "10:00", "12:00"
	exc, err := svc.AddException(context.Background(), provider.ID, &model.CreateExceptionRequest{
		ExceptionDate: time.Now(),
		ExceptionType: model.ExceptionPartialBlock,
		StartTime:     &start,
		EndTime:       &end,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ExceptionPartialBlock, exc.ExceptionType)
}
