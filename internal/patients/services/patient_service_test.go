package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditmodels "github.com/medifront/frontdesk-backend/internal/audit/models"
	"github.com/medifront/frontdesk-backend/internal/patients/models"
)

type recorderStub struct {
	events []auditmodels.Event
}

func (r *recorderStub) Record(e auditmodels.Event) {
	r.events = append(r.events, e)
}

func patientRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "full_name", "date_of_birth", "gender", "address", "contact_number",
		"civil_status", "religion", "philhealth_id", "created_at", "updated_at",
	}).AddRow(int64(7), "Maria Santos", time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		"female", "123 Mabini St", "09171234567", nil, nil, nil, now, now)
}

func TestCreateInsertsAndRecordsAudit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO patients")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	recorder := &recorderStub{}
	svc := NewPatientService(db, recorder)

	patient, err := svc.Create(&models.Patient{
		FullName:      "Maria Santos",
		DateOfBirth:   time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		Gender:        "female",
		Address:       "123 Mabini St",
		ContactNumber: "09171234567",
	}, 42)
	require.NoError(t, err)

	assert.Equal(t, int64(7), patient.ID)
	require.Len(t, recorder.events, 1)
	assert.Equal(t, "patient.create", recorder.events[0].Action)
	assert.Equal(t, int64(42), recorder.events[0].ActorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	empty := sqlmock.NewRows([]string{
		"id", "full_name", "date_of_birth", "gender", "address", "contact_number",
		"civil_status", "religion", "philhealth_id", "created_at", "updated_at",
	})
	mock.ExpectQuery(regexp.QuoteMeta("FROM patients WHERE id = ?")).
		WithArgs(int64(404)).
		WillReturnRows(empty)

	svc := NewPatientService(db, &recorderStub{})
	_, err = svc.GetByID(404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDReturnsPatient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM patients WHERE id = ?")).
		WithArgs(int64(7)).
		WillReturnRows(patientRows())

	svc := NewPatientService(db, &recorderStub{})
	patient, err := svc.GetByID(7)
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", patient.FullName)
	assert.Empty(t, patient.PhilhealthID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchFiltersByTerm(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("full_name LIKE ? OR contact_number LIKE ?")).
		WithArgs("%Santos%", "%Santos%").
		WillReturnRows(patientRows())

	svc := NewPatientService(db, &recorderStub{})
	patients, err := svc.Search("Santos")
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Maria Santos", patients[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
