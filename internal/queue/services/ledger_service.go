package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/medifront/frontdesk-backend/internal/queue/models"
)

// ErrConflict signals a lost race on the per-date queue number; the
// allocation is retried, never surfaced to the client as-is.
var ErrConflict = errors.New("queue number conflict")

const maxAllocationRetries = 3

// DateString normalizes a timestamp to the DATE partition key.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// LedgerService owns queue-number assignment. Numbers are sequential per
// queue_date, starting at 1, backed by the unique index on
// (queue_date, queue_number).
type LedgerService struct {
	DB *sql.DB
}

func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// NextNumber reads the highest number assigned for the date under FOR UPDATE
// so that concurrent allocations for the same day serialize on the
// partition.
func (s *LedgerService) NextNumber(tx *sql.Tx, date time.Time) (int, error) {
	var max int
	err := tx.QueryRow(
		"SELECT COALESCE(MAX(queue_number), 0) FROM queue_entries WHERE queue_date = ? FOR UPDATE",
		DateString(date),
	).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// CreateTx allocates the next number and inserts a waiting entry inside the
// caller's transaction. A duplicate-key insert maps to ErrConflict.
func (s *LedgerService) CreateTx(tx *sql.Tx, date time.Time, patientID int64, reason string) (*models.QueueEntry, error) {
	number, err := s.NextNumber(tx, date)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res, err := tx.Exec(
		`INSERT INTO queue_entries
			(queue_date, queue_number, patient_id, reason_for_visit, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		DateString(date), number, patientID, reason, string(models.StatusWaiting), now, now,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.QueueEntry{
		ID:             id,
		QueueNumber:    number,
		PatientID:      patientID,
		ReasonForVisit: reason,
		Status:         models.StatusWaiting,
		QueueDate:      date,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Create allocates and persists a new waiting entry in its own transaction,
// retrying the allocation when a concurrent writer wins the number.
func (s *LedgerService) Create(date time.Time, patientID int64, reason string) (*models.QueueEntry, error) {
	for attempt := 0; attempt < maxAllocationRetries; attempt++ {
		tx, err := s.DB.Begin()
		if err != nil {
			return nil, err
		}
		entry, err := s.CreateTx(tx, date, patientID, reason)
		if err != nil {
			tx.Rollback()
			if errors.Is(err, ErrConflict) {
				continue
			}
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return entry, nil
	}
	return nil, ErrConflict
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
