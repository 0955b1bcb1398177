package services

import (
	"database/sql"
	"errors"
	"time"

	auditmodels "github.com/medifront/frontdesk-backend/internal/audit/models"
	audit "github.com/medifront/frontdesk-backend/internal/audit/services"
	"github.com/medifront/frontdesk-backend/internal/patients/models"
)

var ErrNotFound = errors.New("patient not found")

const patientColumns = "id, full_name, date_of_birth, gender, address, contact_number, civil_status, religion, philhealth_id, created_at, updated_at"

type PatientService struct {
	DB    *sql.DB
	Audit audit.Recorder
}

func NewPatientService(db *sql.DB, recorder audit.Recorder) *PatientService {
	return &PatientService{DB: db, Audit: recorder}
}

// CreateTx inserts a patient inside the caller's transaction. Used by the
// pre-registration approval flow so the insert rolls back with it.
func (s *PatientService) CreateTx(tx *sql.Tx, p *models.Patient) (int64, error) {
	now := time.Now()
	res, err := tx.Exec(
		`INSERT INTO patients
			(full_name, date_of_birth, gender, address, contact_number, civil_status, religion, philhealth_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FullName, p.DateOfBirth, p.Gender, p.Address, p.ContactNumber,
		p.CivilStatus, p.Religion, p.PhilhealthID, now, now,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return id, nil
}

// Create registers a patient at the front desk.
func (s *PatientService) Create(p *models.Patient, actorID int64) (*models.Patient, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	if _, err := s.CreateTx(tx, p); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.Audit.Record(auditmodels.Event{
		ActorID:  actorID,
		Action:   "patient.create",
		Entity:   "patient",
		EntityID: p.ID,
	})
	return p, nil
}

// GetByID loads one patient.
func (s *PatientService) GetByID(id int64) (*models.Patient, error) {
	row := s.DB.QueryRow("SELECT "+patientColumns+" FROM patients WHERE id = ?", id)
	p, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

// Search lists patients whose name or contact number matches, newest first.
// An empty term lists everyone.
func (s *PatientService) Search(term string) ([]models.Patient, error) {
	query := "SELECT " + patientColumns + " FROM patients"
	var args []interface{}
	if term != "" {
		query += " WHERE full_name LIKE ? OR contact_number LIKE ?"
		like := "%" + term + "%"
		args = append(args, like, like)
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []models.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, *p)
	}
	return patients, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(sc rowScanner) (*models.Patient, error) {
	var p models.Patient
	var civilStatus, religion, philhealthID sql.NullString
	if err := sc.Scan(
		&p.ID, &p.FullName, &p.DateOfBirth, &p.Gender, &p.Address, &p.ContactNumber,
		&civilStatus, &religion, &philhealthID, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.CivilStatus = civilStatus.String
	p.Religion = religion.String
	p.PhilhealthID = philhealthID.String
	return &p, nil
}
