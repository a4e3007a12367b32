package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpsych/clinic-api/internal/config"
	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/logger"
)

type stubOutbox struct {
	pending  []*model.OutboxEvent
	statuses map[uuid.UUID]string
	errs     map[uuid.UUID]string
}

func newStubOutbox(events ...*model.OutboxEvent) *stubOutbox {
	return &stubOutbox{
		pending:  events,
		statuses: make(map[uuid.UUID]string),
		errs:     make(map[uuid.UUID]string),
	}
}

func (s *stubOutbox) GetPendingEventsWithLock(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *stubOutbox) UpdateStatus(_ context.Context, id uuid.UUID, status string, errorMessage *string) error {
	s.statuses[id] = status
	if errorMessage != nil {
		s.errs[id] = *errorMessage
	}
	return nil
}

type stubBroker struct {
	published map[string][]interface{}
	failures  int
}

func newStubBroker() *stubBroker {
	return &stubBroker{published: make(map[string][]interface{})}
}

func (b *stubBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if b.failures > 0 {
		b.failures--
		return errors.New("broker unavailable")
	}
	b.published[channel] = append(b.published[channel], message)
	return nil
}

func (b *stubBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *stubBroker) Close() error { return nil }

func quietLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func outboxEvent(eventType string) *model.OutboxEvent {
	payload, _ := json.Marshal(map[string]string{"k": "v"})
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		Status:    string(model.OutboxStatusPending),
		CreatedAt: time.Now(),
	}
}

func fastConfig() config.WorkerConfig {
	return config.WorkerConfig{BatchSize: 10, PollIntervalSeconds: 1, RetryAttempts: 2, RetryDelaySeconds: 0}
}

func TestProcessBatchPublishesAndMarksProcessed(t *testing.T) {
	booked := outboxEvent(model.EventAppointmentBooked)
	changed := outboxEvent(model.EventEngagementChanged)
	outbox := newStubOutbox(booked, changed)
	broker := newStubBroker()

	p := NewProcessor(outbox, broker, fastConfig(), quietLogger(), nil)
	require.NoError(t, p.ProcessBatch(context.Background()))

	assert.Len(t, broker.published[model.EventAppointmentBooked], 1)
	assert.Len(t, broker.published[model.EventEngagementChanged], 1)
	assert.Equal(t, string(model.OutboxStatusProcessed), outbox.statuses[booked.ID])
	assert.Equal(t, string(model.OutboxStatusProcessed), outbox.statuses[changed.ID])
}

func TestProcessBatchRetriesTransientFailure(t *testing.T) {
	evt := outboxEvent(model.EventAppointmentBooked)
	outbox := newStubOutbox(evt)
	broker := newStubBroker()
	broker.failures = 1

	p := NewProcessor(outbox, broker, fastConfig(), quietLogger(), nil)
	require.NoError(t, p.ProcessBatch(context.Background()))

	assert.Len(t, broker.published[model.EventAppointmentBooked], 1)
	assert.Equal(t, string(model.OutboxStatusProcessed), outbox.statuses[evt.ID])
}

func TestProcessBatchMarksFailedAfterRetriesExhausted(t *testing.T) {
	evt := outboxEvent(model.EventAppointmentBooked)
	outbox := newStubOutbox(evt)
	broker := newStubBroker()
	broker.failures = 99

	p := NewProcessor(outbox, broker, fastConfig(), quietLogger(), nil)
	require.NoError(t, p.ProcessBatch(context.Background()))

	assert.Empty(t, broker.published)
	assert.Equal(t, string(model.OutboxStatusFailed), outbox.statuses[evt.ID])
	assert.Contains(t, outbox.errs[evt.ID], "broker unavailable")
}

func TestProcessBatchRespectsBatchSize(t *testing.T) {
	outbox := newStubOutbox(
		outboxEvent(model.EventAppointmentBooked),
		outboxEvent(model.EventAppointmentBooked),
		outboxEvent(model.EventAppointmentBooked),
	)
	broker := newStubBroker()

	cfg := fastConfig()
	cfg.BatchSize = 2
	p := NewProcessor(outbox, broker, cfg, quietLogger(), nil)
	require.NoError(t, p.ProcessBatch(context.Background()))

	assert.Len(t, broker.published[model.EventAppointmentBooked], 2)
}
