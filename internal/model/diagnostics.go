package model

import (
	"time"

	"github.com/google/uuid"
)

type FindingLevel string

const (
	FindingError   FindingLevel = "error"
	FindingWarning FindingLevel = "warning"
	FindingInfo    FindingLevel = "info"
)

// Finding is one advisory result from the payer sanity checks.
type Finding struct {
	Level    FindingLevel `json:"level"`
	Category string       `json:"category"`
	Message  string       `json:"message"`
	Details  interface{}  `json:"details,omitempty"`
}

// BlockedProvider is a provider with a valid contract who is excluded
// from booking by their own roster flags.
type BlockedProvider struct {
	ProviderID         uuid.UUID `db:"provider_id" json:"provider_id"`
	FirstName          string    `db:"first_name" json:"first_name"`
	LastName           string    `db:"last_name" json:"last_name"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	IsBookable         bool      `db:"is_bookable" json:"is_bookable"`
	AcceptsNewPatients bool      `db:"accepts_new_patients" json:"accepts_new_patients"`
}

// PendingContract is a contract whose window has not opened yet.
type PendingContract struct {
	ProviderID       uuid.UUID  `db:"provider_id" json:"provider_id"`
	FirstName        string     `db:"first_name" json:"first_name"`
	LastName         string     `db:"last_name" json:"last_name"`
	EffectiveDate    time.Time  `db:"effective_date" json:"effective_date"`
	BookableFromDate *time.Time `db:"bookable_from_date" json:"bookable_from_date,omitempty"`
}

// UncoveredSupervisor supervises active residents but has no effective
// contract of their own for the payer.
type UncoveredSupervisor struct {
	ProviderID      uuid.UUID `db:"provider_id" json:"provider_id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	SuperviseeCount int       `db:"supervisee_count" json:"supervisee_count"`
}

// UnsupervisedResident is active and bookable but has no active
// supervision link for the payer.
type UnsupervisedResident struct {
	ProviderID uuid.UUID `db:"provider_id" json:"provider_id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
}

// DiagnosticReport is the full output of the payer sanity-check battery.
type DiagnosticReport struct {
	PayerID               uuid.UUID              `json:"payer_id"`
	PayerName             string                 `json:"payer_name"`
	AsOf                  time.Time              `json:"as_of"`
	Findings              []Finding              `json:"findings"`
	BookableProviders     []BookableProvider     `json:"bookable_providers"`
	UncoveredSupervisors  []UncoveredSupervisor  `json:"uncovered_supervisors"`
	UnsupervisedResidents []UnsupervisedResident `json:"unsupervised_residents"`
	BlockedProviders      []BlockedProvider      `json:"blocked_providers"`
	PendingContracts      []PendingContract      `json:"pending_contracts"`
	HasErrors             bool                   `json:"has_errors"`
	HasWarnings           bool                   `json:"has_warnings"`
}
