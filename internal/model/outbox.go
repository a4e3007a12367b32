package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Event types published through the outbox.
const (
	EventEngagementChanged    = "patient.engagement_changed"
	EventAppointmentBooked    = "appointment.booked"
	EventAppointmentCancelled = "appointment.cancelled"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       string          `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
}

// EngagementChangedEvent is the payload for EventEngagementChanged.
type EngagementChangedEvent struct {
	PatientID      uuid.UUID        `json:"patient_id"`
	FromStatus     EngagementStatus `json:"from_status"`
	ToStatus       EngagementStatus `json:"to_status"`
	ChangeReason   string           `json:"change_reason,omitempty"`
	ChangedByEmail string           `json:"changed_by_email"`
	ChangedAt      time.Time        `json:"changed_at"`
	// NotifyAdmins is set when a non-admin actor moved the patient out
	// of active; the worker emails the ops list for these.
	NotifyAdmins bool `json:"notify_admins"`
}
