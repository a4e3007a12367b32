package model

import (
	"time"
)

type PayerStatus string

const (
	PayerStatusApproved PayerStatus = "approved"
	PayerStatusPending  PayerStatus = "pending"
	PayerStatusDenied   PayerStatus = "denied"
	PayerStatusInactive PayerStatus = "inactive"
)

type Payer struct {
	Base
	Name              string      `db:"name" json:"name"`
	PayerType         string      `db:"payer_type" json:"payer_type"`
	State             string      `db:"state" json:"state"`
	StatusCode        PayerStatus `db:"status_code" json:"status_code"`
	EffectiveDate     *time.Time  `db:"effective_date" json:"effective_date,omitempty"`
	RequiresAttending bool        `db:"requires_attending" json:"requires_attending"`
	AllowsSupervised  bool        `db:"allows_supervised" json:"allows_supervised"`
}

type CreatePayerRequest struct {
	Name              string      `json:"name" binding:"required"`
	PayerType         string      `json:"payer_type" binding:"required"`
	State             string      `json:"state" binding:"required,len=2"`
	StatusCode        PayerStatus `json:"status_code" binding:"omitempty,oneof=approved pending denied inactive"`
	EffectiveDate     *time.Time  `json:"effective_date"`
	RequiresAttending bool        `json:"requires_attending"`
	AllowsSupervised  bool        `json:"allows_supervised"`
}

type UpdatePayerRequest struct {
	Name              *string      `json:"name"`
	PayerType         *string      `json:"payer_type"`
	State             *string      `json:"state" binding:"omitempty,len=2"`
	StatusCode        *PayerStatus `json:"status_code" binding:"omitempty,oneof=approved pending denied inactive"`
	EffectiveDate     *time.Time   `json:"effective_date"`
	RequiresAttending *bool        `json:"requires_attending"`
	AllowsSupervised  *bool        `json:"allows_supervised"`
}
