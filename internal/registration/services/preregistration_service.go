package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	auditmodels "github.com/medifront/frontdesk-backend/internal/audit/models"
	audit "github.com/medifront/frontdesk-backend/internal/audit/services"
	patientmodels "github.com/medifront/frontdesk-backend/internal/patients/models"
	patients "github.com/medifront/frontdesk-backend/internal/patients/services"
	queuemodels "github.com/medifront/frontdesk-backend/internal/queue/models"
	queue "github.com/medifront/frontdesk-backend/internal/queue/services"
	"github.com/medifront/frontdesk-backend/internal/registration/models"
)

var (
	ErrNotFound     = errors.New("pre-registration not found")
	ErrInvalidState = errors.New("pre-registration is no longer pending")
)

const preRegColumns = "id, tracking_code, full_name, date_of_birth, gender, address, contact_number, civil_status, religion, philhealth_id, reason_for_visit, status, approved_by, approved_at, created_at, updated_at"

// PreRegistrationService stages public visit requests and, on approval,
// materializes the patient record and queue entry in one transaction.
type PreRegistrationService struct {
	DB       *sql.DB
	Patients *patients.PatientService
	Ledger   *queue.LedgerService
	Audit    audit.Recorder
}

func NewPreRegistrationService(db *sql.DB, patientSvc *patients.PatientService, ledger *queue.LedgerService, recorder audit.Recorder) *PreRegistrationService {
	return &PreRegistrationService{DB: db, Patients: patientSvc, Ledger: ledger, Audit: recorder}
}

// Submit validates and stages a public visit request as pending.
func (s *PreRegistrationService) Submit(p *models.PreRegistration) (*models.PreRegistration, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	p.TrackingCode = uuid.NewString()
	p.Status = models.PreRegPending
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := s.DB.Exec(
		`INSERT INTO pre_registrations
			(tracking_code, full_name, date_of_birth, gender, address, contact_number,
			 civil_status, religion, philhealth_id, reason_for_visit, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.TrackingCode, p.FullName, p.DateOfBirth, p.Gender, p.Address, p.ContactNumber,
		p.CivilStatus, p.Religion, p.PhilhealthID, p.ReasonForVisit, string(p.Status), now, now,
	)
	if err != nil {
		return nil, err
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}

	s.Audit.Record(auditmodels.Event{
		Action:   "preregistration.submit",
		Entity:   "pre_registration",
		EntityID: p.ID,
	})
	return p, nil
}

// Approve turns a pending request into a patient plus a waiting queue entry
// for today. The patient insert, queue insert and status update commit or
// roll back as one unit.
func (s *PreRegistrationService) Approve(id int64, actorID int64) (*patientmodels.Patient, *queuemodels.QueueEntry, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, nil, err
	}

	reg, err := s.getForUpdate(tx, id)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if reg.Status != models.PreRegPending {
		tx.Rollback()
		return nil, nil, fmt.Errorf("%w: status is %s", ErrInvalidState, reg.Status)
	}

	patient := reg.ToPatient()
	if _, err := s.Patients.CreateTx(tx, patient); err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	entry, err := s.Ledger.CreateTx(tx, time.Now(), patient.ID, reg.ReasonForVisit)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	now := time.Now()
	if _, err := tx.Exec(
		"UPDATE pre_registrations SET status = ?, approved_by = ?, approved_at = ?, updated_at = ? WHERE id = ?",
		string(models.PreRegApproved), actorID, now, now, id,
	); err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	s.Audit.Record(auditmodels.Event{
		ActorID:  actorID,
		Action:   "preregistration.approve",
		Entity:   "pre_registration",
		EntityID: id,
		Details:  fmt.Sprintf("patient %d, queue number %d", patient.ID, entry.QueueNumber),
	})
	return patient, entry, nil
}

// Reject finalizes a pending request without creating anything. The reason
// goes to the audit trail only.
func (s *PreRegistrationService) Reject(id int64, actorID int64, reason string) (*models.PreRegistration, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	reg, err := s.getForUpdate(tx, id)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if reg.Status != models.PreRegPending {
		tx.Rollback()
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidState, reg.Status)
	}

	now := time.Now()
	if _, err := tx.Exec(
		"UPDATE pre_registrations SET status = ?, approved_by = ?, approved_at = ?, updated_at = ? WHERE id = ?",
		string(models.PreRegRejected), actorID, now, now, id,
	); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	reg.Status = models.PreRegRejected
	reg.ApprovedBy = &actorID
	reg.ApprovedAt = &now
	reg.UpdatedAt = now

	s.Audit.Record(auditmodels.Event{
		ActorID:  actorID,
		Action:   "preregistration.reject",
		Entity:   "pre_registration",
		EntityID: id,
		Details:  reason,
	})
	return reg, nil
}

// List returns requests filtered by status; an empty status lists all.
func (s *PreRegistrationService) List(status string) ([]models.PreRegistration, error) {
	query := "SELECT " + preRegColumns + " FROM pre_registrations"
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []models.PreRegistration
	for rows.Next() {
		reg, err := scanPreReg(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func (s *PreRegistrationService) getForUpdate(tx *sql.Tx, id int64) (*models.PreRegistration, error) {
	row := tx.QueryRow("SELECT "+preRegColumns+" FROM pre_registrations WHERE id = ? FOR UPDATE", id)
	reg, err := scanPreReg(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return reg, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPreReg(sc rowScanner) (*models.PreRegistration, error) {
	var reg models.PreRegistration
	var status string
	var civilStatus, religion, philhealthID sql.NullString
	var approvedBy sql.NullInt64
	var approvedAt sql.NullTime
	if err := sc.Scan(
		&reg.ID, &reg.TrackingCode, &reg.FullName, &reg.DateOfBirth, &reg.Gender,
		&reg.Address, &reg.ContactNumber, &civilStatus, &religion, &philhealthID,
		&reg.ReasonForVisit, &status, &approvedBy, &approvedAt, &reg.CreatedAt, &reg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	reg.Status = models.PreRegStatus(status)
	reg.CivilStatus = civilStatus.String
	reg.Religion = religion.String
	reg.PhilhealthID = philhealthID.String
	if approvedBy.Valid {
		v := approvedBy.Int64
		reg.ApprovedBy = &v
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		reg.ApprovedAt = &t
	}
	return &reg, nil
}
