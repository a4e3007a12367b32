package model

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyBlock is one recurring block of a provider's weekly template.
// Times are clock strings ("09:00") local to the clinic.
type WeeklyBlock struct {
	Base
	ProviderID  uuid.UUID `db:"provider_id" json:"provider_id"`
	DayOfWeek   int       `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	IsRecurring bool      `db:"is_recurring" json:"is_recurring"`
}

type ExceptionType string

const (
	ExceptionUnavailable  ExceptionType = "unavailable"
	ExceptionCustomHours  ExceptionType = "custom_hours"
	ExceptionPartialBlock ExceptionType = "partial_block"
	ExceptionVacation     ExceptionType = "vacation"
)

// AvailabilityException overrides the weekly template for one date.
type AvailabilityException struct {
	Base
	ProviderID    uuid.UUID     `db:"provider_id" json:"provider_id"`
	ExceptionDate time.Time     `db:"exception_date" json:"exception_date"`
	ExceptionType ExceptionType `db:"exception_type" json:"exception_type"`
	StartTime     *string       `db:"start_time" json:"start_time,omitempty"`
	EndTime       *string       `db:"end_time" json:"end_time,omitempty"`
	Note          string        `db:"note" json:"note,omitempty"`
}

// Slot is one bookable opening.
type Slot struct {
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	ProviderID   uuid.UUID `json:"provider_id"`
	ProviderName string    `json:"provider_name"`
	Duration     int       `json:"duration"`
	IsAvailable  bool      `json:"is_available"`
}

type CreateWeeklyBlockRequest struct {
	DayOfWeek   *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime   string `json:"start_time" binding:"required,clocktime"`
	EndTime     string `json:"end_time" binding:"required,clocktime"`
	IsRecurring bool   `json:"is_recurring"`
}

type CreateExceptionRequest struct {
	ExceptionDate time.Time     `json:"exception_date" binding:"required"`
	ExceptionType ExceptionType `json:"exception_type" binding:"required,oneof=unavailable custom_hours partial_block vacation"`
	StartTime     *string       `json:"start_time" binding:"omitempty,clocktime"`
	EndTime       *string       `json:"end_time" binding:"omitempty,clocktime"`
	Note          string        `json:"note" binding:"max=500"`
}
