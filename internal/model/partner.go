package model

import (
	"time"

	"github.com/google/uuid"
)

type Partner struct {
	Base
	Name         string `db:"name" json:"name"`
	Kind         string `db:"kind" json:"kind"`
	State        string `db:"state" json:"state"`
	Website      string `db:"website" json:"website,omitempty"`
	Notes        string `db:"notes" json:"notes,omitempty"`
	IsActive     bool   `db:"is_active" json:"is_active"`
	ContactEmail string `db:"contact_email" json:"contact_email,omitempty"`
}

type PartnerContact struct {
	Base
	PartnerID uuid.UUID `db:"partner_id" json:"partner_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	Title     string    `db:"title" json:"title,omitempty"`
}

// ROIConsent gates sharing a patient's referral data with a partner.
type ROIConsent struct {
	Base
	PatientID uuid.UUID  `db:"patient_id" json:"patient_id"`
	PartnerID uuid.UUID  `db:"partner_id" json:"partner_id"`
	SignedAt  time.Time  `db:"signed_at" json:"signed_at"`
	ExpiresAt *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}

// ActiveOn reports whether the consent authorizes disclosure on a date.
func (r *ROIConsent) ActiveOn(d time.Time) bool {
	if r.RevokedAt != nil && !r.RevokedAt.After(d) {
		return false
	}
	if r.SignedAt.After(d) {
		return false
	}
	return r.ExpiresAt == nil || !r.ExpiresAt.Before(d)
}

type Referral struct {
	Base
	PartnerID uuid.UUID `db:"partner_id" json:"partner_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Direction string    `db:"direction" json:"direction"`
	Status    string    `db:"status" json:"status"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
}

type CreatePartnerRequest struct {
	Name         string `json:"name" binding:"required"`
	Kind         string `json:"kind" binding:"required"`
	State        string `json:"state" binding:"omitempty,len=2"`
	Website      string `json:"website" binding:"omitempty,url"`
	Notes        string `json:"notes" binding:"max=2000"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
}

type CreatePartnerContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
	Title string `json:"title"`
}

type CreateReferralRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	Direction string    `json:"direction" binding:"required,oneof=inbound outbound"`
	Status    string    `json:"status" binding:"omitempty,oneof=pending accepted declined completed"`
	Notes     string    `json:"notes" binding:"max=2000"`
}

type CreateROIConsentRequest struct {
	PatientID uuid.UUID  `json:"patient_id" binding:"required"`
	SignedAt  time.Time  `json:"signed_at" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}
