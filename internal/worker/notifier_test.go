package worker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpsych/clinic-api/internal/model"
)

type stubAlertSender struct {
	sent []*model.EngagementChangedEvent
	to   []string
}

func (s *stubAlertSender) SendEngagementAlert(to []string, event *model.EngagementChangedEvent) error {
	s.to = to
	s.sent = append(s.sent, event)
	return nil
}

func engagementMessage(t *testing.T, notify bool) []byte {
	t.Helper()
	payload, err := json.Marshal(&model.EngagementChangedEvent{
		PatientID:      uuid.New(),
		FromStatus:     model.EngagementActive,
		ToStatus:       model.EngagementUnresponsive,
		ChangeReason:   "no response to three outreach attempts",
		ChangedByEmail: "frontdesk@meridianpsych.com",
		ChangedAt:      time.Now(),
		NotifyAdmins:   notify,
	})
	require.NoError(t, err)

	raw, err := json.Marshal(&model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventEngagementChanged,
		Payload:   payload,
	})
	require.NoError(t, err)
	return raw
}

func TestNotifierSendsWhenFlagged(t *testing.T) {
	sender := &stubAlertSender{}
	recipients := []string{"ops@meridianpsych.com"}
	n := NewEngagementNotifier(nil, sender, recipients, quietLogger())

	require.NoError(t, n.Handle(engagementMessage(t, true)))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, recipients, sender.to)
	assert.Equal(t, model.EngagementUnresponsive, sender.sent[0].ToStatus)
	assert.Equal(t, "no response to three outreach attempts", sender.sent[0].ChangeReason)
}

func TestNotifierSkipsUnflaggedChanges(t *testing.T) {
	sender := &stubAlertSender{}
	n := NewEngagementNotifier(nil, sender, []string{"ops@meridianpsych.com"}, quietLogger())

	require.NoError(t, n.Handle(engagementMessage(t, false)))
	assert.Empty(t, sender.sent)
}

func TestNotifierRejectsMalformedMessage(t *testing.T) {
	sender := &stubAlertSender{}
	n := NewEngagementNotifier(nil, sender, nil, quietLogger())

	assert.Error(t, n.Handle([]byte("not json")))
	assert.Empty(t, sender.sent)
}
