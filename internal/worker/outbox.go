package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/meridianpsych/clinic-api/internal/config"
	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/logger"
	"github.com/meridianpsych/clinic-api/pkg/messaging"
	"github.com/meridianpsych/clinic-api/pkg/metrics"
)

// OutboxStore is the slice of the outbox repository the processor needs.
type OutboxStore interface {
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errorMessage *string) error
}

// Processor drains the transactional outbox: it claims pending rows,
// publishes each to the broker on a channel named after its event type,
// and marks the row PROCESSED or FAILED. Rows written in the same
// database transaction as the state change they describe are therefore
// published at least once.
type Processor struct {
	outbox     OutboxStore
	broker     messaging.Broker
	logger     *logger.Logger
	metrics    *metrics.Metrics
	batchSize  int
	pollEvery  time.Duration
	maxRetries int
	retryDelay time.Duration
}

func NewProcessor(outbox OutboxStore, broker messaging.Broker, cfg config.WorkerConfig, l *logger.Logger, m *metrics.Metrics) *Processor {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}
	poll := time.Duration(cfg.PollIntervalSeconds) * time.Second
	if poll <= 0 {
		poll = 5 * time.Second
	}
	retries := cfg.RetryAttempts
	if retries <= 0 {
		retries = 3
	}
	delay := time.Duration(cfg.RetryDelaySeconds) * time.Second
	if delay <= 0 {
		delay = 5 * time.Second
	}
	return &Processor{
		outbox:     outbox,
		broker:     broker,
		logger:     l,
		metrics:    m,
		batchSize:  batch,
		pollEvery:  poll,
		maxRetries: retries,
		retryDelay: delay,
	}
}

// Run polls until the context is cancelled.
func (p *Processor) Run(ctx context.Context) {
	ticker := time.NewTicker(p.pollEvery)
	defer ticker.Stop()

	p.logger.Info("outbox processor started", "batch_size", p.batchSize)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor shutting down")
			return
		case <-ticker.C:
			if err := p.ProcessBatch(ctx); err != nil {
				p.logger.Error(err, "outbox batch failed")
			}
		}
	}
}

// ProcessBatch claims one batch of pending events and publishes them.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	if p.metrics != nil {
		timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
		defer timer.ObserveDuration()
	}

	events, err := p.outbox.GetPendingEventsWithLock(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to claim pending events: %w", err)
	}

	for _, evt := range events {
		if err := p.publishWithRetry(ctx, evt); err != nil {
			if p.metrics != nil {
				p.metrics.OutboxEventsFailed.Inc()
			}
			p.logger.Error(err, "event publish failed", "event_id", evt.ID.String(), "event_type", evt.EventType)

			msg := err.Error()
			if updateErr := p.outbox.UpdateStatus(ctx, evt.ID, string(model.OutboxStatusFailed), &msg); updateErr != nil {
				p.logger.Error(updateErr, "failed to mark event FAILED", "event_id", evt.ID.String())
			}
			continue
		}

		if err := p.outbox.UpdateStatus(ctx, evt.ID, string(model.OutboxStatusProcessed), nil); err != nil {
			p.logger.Error(err, "failed to mark event PROCESSED", "event_id", evt.ID.String())
			continue
		}
		if p.metrics != nil {
			p.metrics.OutboxEventsProcessed.Inc()
		}
	}
	return nil
}

func (p *Processor) publishWithRetry(ctx context.Context, evt *model.OutboxEvent) error {
	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * p.retryDelay):
			}
		}

		lastErr = p.broker.Publish(ctx, evt.EventType, evt)
		if lastErr == nil {
			return nil
		}
		p.logger.Warn("retrying event publish", "event_id", evt.ID.String(), "attempt", attempt+1)
	}
	return lastErr
}
