package models

import (
	"fmt"
	"strings"
	"time"

	patientmodels "github.com/medifront/frontdesk-backend/internal/patients/models"
)

// PreRegStatus is the closed set of pre-registration states. pending is the
// only state that permits a transition, and any change out of it is final.
type PreRegStatus string

const (
	PreRegPending  PreRegStatus = "pending"
	PreRegApproved PreRegStatus = "approved"
	PreRegRejected PreRegStatus = "rejected"
)

// PreRegistration is a self-submitted visit request awaiting staff action.
type PreRegistration struct {
	ID             int64        `json:"id"`
	TrackingCode   string       `json:"tracking_code"`
	FullName       string       `json:"full_name"`
	DateOfBirth    time.Time    `json:"date_of_birth"`
	Gender         string       `json:"gender"`
	Address        string       `json:"address"`
	ContactNumber  string       `json:"contact_number"`
	CivilStatus    string       `json:"civil_status,omitempty"`
	Religion       string       `json:"religion,omitempty"`
	PhilhealthID   string       `json:"philhealth_id,omitempty"`
	ReasonForVisit string       `json:"reason_for_visit"`
	Status         PreRegStatus `json:"status"`
	ApprovedBy     *int64       `json:"approved_by"`
	ApprovedAt     *time.Time   `json:"approved_at"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// ValidationError carries field-level messages for a 422 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the submission before it is staged as pending.
func (p *PreRegistration) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(p.FullName) == "" {
		fields["full_name"] = "is required"
	}
	if p.DateOfBirth.IsZero() {
		fields["date_of_birth"] = "is required"
	}
	switch p.Gender {
	case "male", "female", "other":
	case "":
		fields["gender"] = "is required"
	default:
		fields["gender"] = "must be one of male, female, other"
	}
	if strings.TrimSpace(p.Address) == "" {
		fields["address"] = "is required"
	}
	if strings.TrimSpace(p.ContactNumber) == "" {
		fields["contact_number"] = "is required"
	}
	if strings.TrimSpace(p.ReasonForVisit) == "" {
		fields["reason_for_visit"] = "is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ToPatient maps the staged fields onto a new patient record. Every field is
// a straight passthrough.
func (p *PreRegistration) ToPatient() *patientmodels.Patient {
	return &patientmodels.Patient{
		FullName:      p.FullName,
		DateOfBirth:   p.DateOfBirth,
		Gender:        p.Gender,
		Address:       p.Address,
		ContactNumber: p.ContactNumber,
		CivilStatus:   p.CivilStatus,
		Religion:      p.Religion,
		PhilhealthID:  p.PhilhealthID,
	}
}
