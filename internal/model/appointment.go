package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	Base
	ProviderID       uuid.UUID         `db:"provider_id" json:"provider_id"`
	PatientID        uuid.UUID         `db:"patient_id" json:"patient_id"`
	PayerID          *uuid.UUID        `db:"payer_id" json:"payer_id,omitempty"`
	Date             time.Time         `db:"date" json:"date"`
	Time             string            `db:"time" json:"time"`
	DurationMinutes  int               `db:"duration_minutes" json:"duration_minutes"`
	Status           AppointmentStatus `db:"status" json:"status"`
	Telehealth       bool              `db:"telehealth" json:"telehealth"`
	Notes            string            `db:"notes" json:"notes,omitempty"`
	CancelReason     *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
	PMSAppointmentID *string           `db:"pms_appointment_id" json:"pms_appointment_id,omitempty"`
	IdempotencyKey   *string           `db:"idempotency_key" json:"-"`
}

type BookAppointmentRequest struct {
	ProviderID      uuid.UUID  `json:"provider_id" binding:"required"`
	PatientID       uuid.UUID  `json:"patient_id" binding:"required"`
	PayerID         *uuid.UUID `json:"payer_id"`
	Date            string     `json:"date" binding:"required,datetime=2006-01-02"`
	Time            string     `json:"time" binding:"required,clocktime"`
	DurationMinutes int        `json:"duration_minutes" binding:"required,min=15,max=240"`
	Telehealth      bool       `json:"telehealth"`
	Notes           string     `json:"notes" binding:"max=1000"`
	IdempotencyKey  string     `json:"idempotency_key" binding:"omitempty,uuid"`
}

type AppointmentFilter struct {
	ProviderID uuid.UUID `form:"provider_id"`
	PatientID  uuid.UUID `form:"patient_id"`
	Status     string    `form:"status"`
	StartDate  time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    time.Time `form:"end_date" time_format:"2006-01-02"`
}
