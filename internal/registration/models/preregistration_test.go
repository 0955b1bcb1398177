package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPreReg() *PreRegistration {
	return &PreRegistration{
		FullName:       "Maria Santos",
		DateOfBirth:    time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		Gender:         "female",
		Address:        "123 Mabini St",
		ContactNumber:  "09171234567",
		CivilStatus:    "single",
		Religion:       "catholic",
		PhilhealthID:   "12-345678901-2",
		ReasonForVisit: "checkup",
	}
}

func TestValidateAcceptsCompleteSubmission(t *testing.T) {
	assert.NoError(t, validPreReg().Validate())
}

func TestValidateOptionalFieldsMayBeEmpty(t *testing.T) {
	reg := validPreReg()
	reg.CivilStatus = ""
	reg.Religion = ""
	reg.PhilhealthID = ""
	assert.NoError(t, reg.Validate())
}

func TestValidateReportsMissingFields(t *testing.T) {
	reg := &PreRegistration{}
	err := reg.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"full_name", "date_of_birth", "gender", "address", "contact_number", "reason_for_visit"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestValidateRejectsUnknownGender(t *testing.T) {
	reg := validPreReg()
	reg.Gender = "unknown"
	err := reg.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "gender")
}

func TestToPatientIsPurePassthrough(t *testing.T) {
	reg := validPreReg()
	patient := reg.ToPatient()

	assert.Equal(t, reg.FullName, patient.FullName)
	assert.Equal(t, reg.DateOfBirth, patient.DateOfBirth)
	assert.Equal(t, reg.Gender, patient.Gender)
	assert.Equal(t, reg.Address, patient.Address)
	assert.Equal(t, reg.ContactNumber, patient.ContactNumber)
	assert.Equal(t, reg.CivilStatus, patient.CivilStatus)
	assert.Equal(t, reg.Religion, patient.Religion)
	assert.Equal(t, reg.PhilhealthID, patient.PhilhealthID)
	assert.Zero(t, patient.ID)
}
