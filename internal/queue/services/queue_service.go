package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	auditmodels "github.com/medifront/frontdesk-backend/internal/audit/models"
	audit "github.com/medifront/frontdesk-backend/internal/audit/services"
	"github.com/medifront/frontdesk-backend/internal/queue/models"
)

var ErrNotFound = errors.New("queue entry not found")

const entryColumns = "id, queue_number, patient_id, reason_for_visit, status, called_at, served_at, queue_date, created_at, updated_at"

// QueueService orchestrates entry lifecycle and the read projections used by
// the staff dashboard and the public display.
type QueueService struct {
	DB     *sql.DB
	Ledger *LedgerService
	Audit  audit.Recorder
}

func NewQueueService(db *sql.DB, ledger *LedgerService, recorder audit.Recorder) *QueueService {
	return &QueueService{DB: db, Ledger: ledger, Audit: recorder}
}

// Create registers a walk-in entry for the date and records the action.
func (s *QueueService) Create(date time.Time, patientID int64, reason string, actorID int64) (*models.QueueEntry, error) {
	entry, err := s.Ledger.Create(date, patientID, reason)
	if err != nil {
		return nil, err
	}
	s.Audit.Record(auditmodels.Event{
		ActorID:  actorID,
		Action:   "queue.create",
		Entity:   "queue_entry",
		EntityID: entry.ID,
		Details:  fmt.Sprintf("number %d for %s", entry.QueueNumber, DateString(date)),
	})
	return entry, nil
}

// GetByID loads a single entry.
func (s *QueueService) GetByID(id int64) (*models.QueueEntry, error) {
	row := s.DB.QueryRow("SELECT "+entryColumns+" FROM queue_entries WHERE id = ?", id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return entry, err
}

// ListForDate returns every entry for the date ordered by queue number.
func (s *QueueService) ListForDate(date time.Time) ([]models.QueueEntry, error) {
	return s.queryEntries(
		"SELECT "+entryColumns+" FROM queue_entries WHERE queue_date = ? ORDER BY queue_number ASC",
		DateString(date),
	)
}

// NowServing returns the serving entry for the date, or nil when nobody is
// being attended. Should more than one entry be serving, the lowest queue
// number wins.
func (s *QueueService) NowServing(date time.Time) (*models.QueueEntry, error) {
	row := s.DB.QueryRow(
		"SELECT "+entryColumns+" FROM queue_entries WHERE queue_date = ? AND status = ? ORDER BY queue_number ASC LIMIT 1",
		DateString(date), string(models.StatusServing),
	)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

// NextUp returns up to limit waiting entries in queue order.
func (s *QueueService) NextUp(date time.Time, limit int) ([]models.QueueEntry, error) {
	return s.queryEntries(
		"SELECT "+entryColumns+" FROM queue_entries WHERE queue_date = ? AND status = ? ORDER BY queue_number ASC LIMIT ?",
		DateString(date), string(models.StatusWaiting), limit,
	)
}

// Statistics counts entries by status for the date.
func (s *QueueService) Statistics(date time.Time) (*models.Statistics, error) {
	rows, err := s.DB.Query(
		"SELECT status, COUNT(*) FROM queue_entries WHERE queue_date = ? GROUP BY status",
		DateString(date),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &models.Statistics{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch models.Status(status) {
		case models.StatusWaiting:
			stats.Waiting = count
		case models.StatusServing:
			stats.Serving = count
		case models.StatusServed:
			stats.Served = count
		case models.StatusSkipped:
			stats.Skipped = count
		}
		stats.Total += count
	}
	return stats, rows.Err()
}

// Transition moves an entry through the state machine and persists the
// result. The row is locked for the duration so concurrent transitions on
// the same entry serialize.
func (s *QueueService) Transition(id int64, target models.Status, actorID int64) (*models.QueueEntry, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow("SELECT "+entryColumns+" FROM queue_entries WHERE id = ? FOR UPDATE", id)
	entry, err := scanEntry(row)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	previous := entry.Status
	if err := entry.Transition(target, time.Now()); err != nil {
		tx.Rollback()
		return nil, err
	}
	if previous == entry.Status {
		// No-op transition: accepted, nothing to persist.
		tx.Rollback()
		return entry, nil
	}

	_, err = tx.Exec(
		"UPDATE queue_entries SET status = ?, called_at = ?, served_at = ?, updated_at = ? WHERE id = ?",
		string(entry.Status), entry.CalledAt, entry.ServedAt, entry.UpdatedAt, entry.ID,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.Audit.Record(auditmodels.Event{
		ActorID:  actorID,
		Action:   "queue.transition",
		Entity:   "queue_entry",
		EntityID: entry.ID,
		Details:  fmt.Sprintf("%s -> %s", previous, entry.Status),
	})
	return entry, nil
}

func (s *QueueService) queryEntries(query string, args ...interface{}) ([]models.QueueEntry, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.QueueEntry
	for rows.Next() {
		entry, err := scanEntryRows(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRow(sc rowScanner) (*models.QueueEntry, error) {
	var e models.QueueEntry
	var status string
	var calledAt, servedAt sql.NullTime
	if err := sc.Scan(
		&e.ID, &e.QueueNumber, &e.PatientID, &e.ReasonForVisit, &status,
		&calledAt, &servedAt, &e.QueueDate, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Status = models.Status(status)
	if calledAt.Valid {
		t := calledAt.Time
		e.CalledAt = &t
	}
	if servedAt.Valid {
		t := servedAt.Time
		e.ServedAt = &t
	}
	return &e, nil
}

func scanEntry(row *sql.Row) (*models.QueueEntry, error) {
	return scanRow(row)
}

func scanEntryRows(rows *sql.Rows) (*models.QueueEntry, error) {
	return scanRow(rows)
}
