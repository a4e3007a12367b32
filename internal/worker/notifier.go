package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/logger"
	"github.com/meridianpsych/clinic-api/pkg/messaging"
)

// AlertSender delivers engagement-change email.
type AlertSender interface {
	SendEngagementAlert(to []string, event *model.EngagementChangedEvent) error
}

// EngagementNotifier listens for engagement-change events and emails
// the ops list when a non-admin actor moved a patient out of active.
type EngagementNotifier struct {
	broker     messaging.Broker
	sender     AlertSender
	recipients []string
	logger     *logger.Logger
}

func NewEngagementNotifier(broker messaging.Broker, sender AlertSender, recipients []string, l *logger.Logger) *EngagementNotifier {
	return &EngagementNotifier{
		broker:     broker,
		sender:     sender,
		recipients: recipients,
		logger:     l,
	}
}

// Run consumes events until the context is cancelled.
func (n *EngagementNotifier) Run(ctx context.Context) error {
	msgs, err := n.broker.Subscribe(ctx, model.EventEngagementChanged)
	if err != nil {
		return fmt.Errorf("failed to subscribe to engagement events: %w", err)
	}

	n.logger.Info("engagement notifier started", "recipients", len(n.recipients))

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := n.Handle(raw); err != nil {
				n.logger.Error(err, "engagement notification failed")
			}
		}
	}
}

// Handle decodes one broker message. Messages arrive as serialized
// outbox rows whose payload holds the engagement event.
func (n *EngagementNotifier) Handle(raw []byte) error {
	var evt model.OutboxEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return fmt.Errorf("failed to decode outbox envelope: %w", err)
	}

	var change model.EngagementChangedEvent
	if err := json.Unmarshal(evt.Payload, &change); err != nil {
		return fmt.Errorf("failed to decode engagement payload: %w", err)
	}

	if !change.NotifyAdmins {
		return nil
	}
	return n.sender.SendEngagementAlert(n.recipients, &change)
}
