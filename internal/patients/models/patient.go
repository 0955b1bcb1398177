package models

import "time"

// Patient is the registered patient record.
type Patient struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	DateOfBirth   time.Time `json:"date_of_birth"`
	Gender        string    `json:"gender"`
	Address       string    `json:"address"`
	ContactNumber string    `json:"contact_number"`
	CivilStatus   string    `json:"civil_status,omitempty"`
	Religion      string    `json:"religion,omitempty"`
	PhilhealthID  string    `json:"philhealth_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
