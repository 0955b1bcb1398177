package services

import (
	"database/sql"
	"time"

	"github.com/medifront/frontdesk-backend/internal/audit/models"
	"github.com/medifront/frontdesk-backend/pkg/logger"
)

// Recorder is what state-changing services emit events to. Implementations
// must never block or fail the caller.
type Recorder interface {
	Record(e models.Event)
}

// Service buffers audit events on a channel and appends them to the
// audit_logs table from a single consumer goroutine. A failed write goes to
// the operational log only.
type Service struct {
	DB     *sql.DB
	events chan models.Event
}

func NewService(db *sql.DB) *Service {
	return &Service{
		DB:     db,
		events: make(chan models.Event, 256),
	}
}

// Start launches the consumer goroutine.
func (s *Service) Start() {
	go s.run()
}

func (s *Service) run() {
	for e := range s.events {
		if err := s.insert(e); err != nil {
			log := logger.L()
			log.Error().Err(err).
				Str("action", e.Action).
				Str("entity", e.Entity).
				Int64("entity_id", e.EntityID).
				Msg("audit: failed to persist event")
		}
	}
}

// Record enqueues an event. When the buffer is full the event is dropped
// rather than stalling the originating request.
func (s *Service) Record(e models.Event) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	select {
	case s.events <- e:
	default:
		log := logger.L()
		log.Warn().Str("action", e.Action).Msg("audit: buffer full, event dropped")
	}
}

func (s *Service) insert(e models.Event) error {
	_, err := s.DB.Exec(
		`INSERT INTO audit_logs (actor_id, action, entity, entity_id, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ActorID, e.Action, e.Entity, e.EntityID, e.Details, e.CreatedAt,
	)
	return err
}

// ListForDate returns the trail for one calendar day, newest first.
func (s *Service) ListForDate(date time.Time) ([]models.Event, error) {
	rows, err := s.DB.Query(
		`SELECT id, actor_id, action, entity, entity_id, details, created_at
		FROM audit_logs
		WHERE DATE(created_at) = ?
		ORDER BY id DESC`,
		date.Format("2006-01-02"),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
