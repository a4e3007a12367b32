package model

import (
	"time"

	"github.com/google/uuid"
)

type EngagementStatus string

const (
	EngagementActive       EngagementStatus = "active"
	EngagementUnresponsive EngagementStatus = "unresponsive"
	EngagementDischarged   EngagementStatus = "discharged"
	EngagementTransferred  EngagementStatus = "transferred"
	EngagementInactive     EngagementStatus = "inactive"
	EngagementDeceased     EngagementStatus = "deceased"
)

func (s EngagementStatus) Valid() bool {
	switch s {
	case EngagementActive, EngagementUnresponsive, EngagementDischarged,
		EngagementTransferred, EngagementInactive, EngagementDeceased:
		return true
	}
	return false
}

type Patient struct {
	Base
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Email       string     `db:"email" json:"email"`
	Phone       string     `db:"phone" json:"phone,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	PayerID     *uuid.UUID `db:"payer_id" json:"payer_id,omitempty"`
	ProviderID  *uuid.UUID `db:"provider_id" json:"provider_id,omitempty"`
}

// EngagementRecord is the current engagement status row for a patient.
// Absence of a row means the patient is implicitly active.
type EngagementRecord struct {
	PatientID      uuid.UUID        `db:"patient_id" json:"patient_id"`
	Status         EngagementStatus `db:"status" json:"status"`
	ChangeReason   *string          `db:"change_reason" json:"change_reason,omitempty"`
	ChangedByEmail string           `db:"changed_by_email" json:"changed_by_email"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// EngagementStatusChange is one history row.
type EngagementStatusChange struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	PatientID      uuid.UUID        `db:"patient_id" json:"patient_id"`
	FromStatus     EngagementStatus `db:"from_status" json:"from_status"`
	ToStatus       EngagementStatus `db:"to_status" json:"to_status"`
	ChangeReason   *string          `db:"change_reason" json:"change_reason,omitempty"`
	ChangedByEmail string           `db:"changed_by_email" json:"changed_by_email"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

type ChangeEngagementStatusRequest struct {
	Status         EngagementStatus `json:"status" binding:"required,oneof=active unresponsive discharged transferred inactive deceased"`
	ChangedByEmail string           `json:"changed_by_email" binding:"required,email"`
	ChangeReason   string           `json:"change_reason" binding:"max=500"`
}

type ChangeEngagementStatusResult struct {
	Changed bool             `json:"changed"`
	Status  EngagementStatus `json:"status"`
}

// RosterEntry is one row of the patient roster materialized view.
type RosterEntry struct {
	PatientID    uuid.UUID        `db:"patient_id" json:"patient_id"`
	FirstName    string           `db:"first_name" json:"first_name"`
	LastName     string           `db:"last_name" json:"last_name"`
	Email        string           `db:"email" json:"email"`
	Status       EngagementStatus `db:"status" json:"status"`
	ProviderName *string          `db:"provider_name" json:"provider_name,omitempty"`
	PayerName    *string          `db:"payer_name" json:"payer_name,omitempty"`
}
