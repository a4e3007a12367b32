package model

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusInNetwork  ContractStatus = "in_network"
	ContractStatusPending    ContractStatus = "pending"
	ContractStatusTerminated ContractStatus = "terminated"
)

// Contract is a direct credentialing relationship between a provider
// and a payer. A provider is directly bookable only while the status is
// in_network, the service date falls inside [effective_date,
// expiration_date] and on/after bookable_from_date when set.
type Contract struct {
	Base
	ProviderID       uuid.UUID      `db:"provider_id" json:"provider_id"`
	PayerID          uuid.UUID      `db:"payer_id" json:"payer_id"`
	Status           ContractStatus `db:"status" json:"status"`
	EffectiveDate    time.Time      `db:"effective_date" json:"effective_date"`
	ExpirationDate   *time.Time     `db:"expiration_date" json:"expiration_date,omitempty"`
	BookableFromDate *time.Time     `db:"bookable_from_date" json:"bookable_from_date,omitempty"`
}

type CreateContractRequest struct {
	ProviderID       uuid.UUID      `json:"provider_id" binding:"required"`
	Status           ContractStatus `json:"status" binding:"required,oneof=in_network pending terminated"`
	EffectiveDate    time.Time      `json:"effective_date" binding:"required"`
	ExpirationDate   *time.Time     `json:"expiration_date"`
	BookableFromDate *time.Time     `json:"bookable_from_date"`
}

type UpdateContractRequest struct {
	Status           *ContractStatus `json:"status" binding:"omitempty,oneof=in_network pending terminated"`
	EffectiveDate    *time.Time      `json:"effective_date"`
	ExpirationDate   *time.Time      `json:"expiration_date"`
	BookableFromDate *time.Time      `json:"bookable_from_date"`
}

// Supervision lets a resident bill under an attending's contract while
// active and inside its date window.
type Supervision struct {
	Base
	SupervisorID uuid.UUID  `db:"supervisor_id" json:"supervisor_id"`
	SuperviseeID uuid.UUID  `db:"supervisee_id" json:"supervisee_id"`
	PayerID      uuid.UUID  `db:"payer_id" json:"payer_id"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	StartDate    time.Time  `db:"start_date" json:"start_date"`
	EndDate      *time.Time `db:"end_date" json:"end_date,omitempty"`
}

type CreateSupervisionRequest struct {
	SupervisorID uuid.UUID  `json:"supervisor_id" binding:"required"`
	PayerID      uuid.UUID  `json:"payer_id" binding:"required"`
	StartDate    time.Time  `json:"start_date" binding:"required"`
	EndDate      *time.Time `json:"end_date"`
}

type NetworkStatus string

const (
	NetworkStatusDirect     NetworkStatus = "direct"
	NetworkStatusSupervised NetworkStatus = "supervised"
)

// BookableProvider is one row of the answer to "who can be booked under
// this payer on this date, and through which billing path".
type BookableProvider struct {
	ProviderID            uuid.UUID     `json:"provider_id"`
	FirstName             string        `json:"first_name"`
	LastName              string        `json:"last_name"`
	Role                  ProviderRole  `json:"role"`
	NetworkStatus         NetworkStatus `json:"network_status"`
	BillingProviderID     uuid.UUID     `json:"billing_provider_id"`
	EffectiveDate         time.Time     `json:"effective_date"`
	ExpirationDate        *time.Time    `json:"expiration_date,omitempty"`
	BookableFromDate      *time.Time    `json:"bookable_from_date,omitempty"`
	SupervisingAttendings []string      `json:"supervising_attendings,omitempty"`
}
