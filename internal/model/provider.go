package model

import (
	"fmt"
)

type ProviderRole string

const (
	ProviderRolePsychiatrist       ProviderRole = "psychiatrist"
	ProviderRoleAttending          ProviderRole = "attending"
	ProviderRoleResident           ProviderRole = "resident"
	ProviderRoleNursePractitioner  ProviderRole = "nurse_practitioner"
	ProviderRolePhysicianAssistant ProviderRole = "physician_assistant"
)

// AttendingLevel reports whether the role can carry its own payer
// contracts without supervision.
func (r ProviderRole) AttendingLevel() bool {
	return r == ProviderRolePsychiatrist || r == ProviderRoleAttending
}

type Provider struct {
	Base
	FirstName          string       `db:"first_name" json:"first_name"`
	LastName           string       `db:"last_name" json:"last_name"`
	Email              string       `db:"email" json:"email"`
	Role               ProviderRole `db:"role" json:"role"`
	NPI                string       `db:"npi" json:"npi,omitempty"`
	IsActive           bool         `db:"is_active" json:"is_active"`
	IsBookable         bool         `db:"is_bookable" json:"is_bookable"`
	AcceptsNewPatients bool         `db:"accepts_new_patients" json:"accepts_new_patients"`
	Telehealth         bool         `db:"telehealth" json:"telehealth"`
}

func (p *Provider) FullName() string {
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}

// Schedulable reports whether the provider can appear in any bookable
// roster at all. Providers failing this are excluded outright and only
// surfaced by the payer diagnostics.
func (p *Provider) Schedulable() bool {
	return p.IsActive && p.IsBookable && p.AcceptsNewPatients
}

type CreateProviderRequest struct {
	FirstName          string       `json:"first_name" binding:"required"`
	LastName           string       `json:"last_name" binding:"required"`
	Email              string       `json:"email" binding:"required,email"`
	Role               ProviderRole `json:"role" binding:"required,oneof=psychiatrist attending resident nurse_practitioner physician_assistant"`
	NPI                string       `json:"npi" binding:"omitempty,len=10,numeric"`
	IsBookable         bool         `json:"is_bookable"`
	AcceptsNewPatients bool         `json:"accepts_new_patients"`
	Telehealth         bool         `json:"telehealth"`
}

type UpdateProviderRequest struct {
	FirstName          *string       `json:"first_name"`
	LastName           *string       `json:"last_name"`
	Email              *string       `json:"email" binding:"omitempty,email"`
	Role               *ProviderRole `json:"role" binding:"omitempty,oneof=psychiatrist attending resident nurse_practitioner physician_assistant"`
	NPI                *string       `json:"npi" binding:"omitempty,len=10,numeric"`
	IsActive           *bool         `json:"is_active"`
	IsBookable         *bool         `json:"is_bookable"`
	AcceptsNewPatients *bool         `json:"accepts_new_patients"`
	Telehealth         *bool         `json:"telehealth"`
}

type ProviderFilter struct {
	Role       ProviderRole `form:"role"`
	ActiveOnly bool         `form:"active_only"`
	Search     string       `form:"search"`
}
