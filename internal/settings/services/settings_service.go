package services

import (
	"database/sql"
	"sync"
	"time"

	auditmodels "github.com/medifront/frontdesk-backend/internal/audit/models"
	audit "github.com/medifront/frontdesk-backend/internal/audit/services"
	"github.com/medifront/frontdesk-backend/internal/settings/models"
)

const cacheTTL = 30 * time.Second

// SettingsService reads the name/value settings table and caches the result
// so the public display endpoint does not hit the database on every poll.
type SettingsService struct {
	DB    *sql.DB
	Audit audit.Recorder

	mu       sync.Mutex
	cached   *models.Settings
	cachedAt time.Time
}

func NewSettingsService(db *sql.DB, recorder audit.Recorder) *SettingsService {
	return &SettingsService{DB: db, Audit: recorder}
}

// Get returns the current settings, served from cache within the TTL.
// Missing rows fall back to defaults.
func (s *SettingsService) Get() (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.cachedAt) < cacheTTL {
		return s.cached, nil
	}

	rows, err := s.DB.Query("SELECT name, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := &models.Settings{
		QueuePrefix: "Q",
		OpeningTime: "08:00",
		ClosingTime: "17:00",
	}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		switch name {
		case "queue_prefix":
			settings.QueuePrefix = value
		case "opening_time":
			settings.OpeningTime = value
		case "closing_time":
			settings.ClosingTime = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.cached = settings
	s.cachedAt = time.Now()
	return settings, nil
}

// Update upserts the settings rows and invalidates the cache.
func (s *SettingsService) Update(settings *models.Settings, actorID int64) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	values := map[string]string{
		"queue_prefix": settings.QueuePrefix,
		"opening_time": settings.OpeningTime,
		"closing_time": settings.ClosingTime,
	}
	for _, name := range []string{"queue_prefix", "opening_time", "closing_time"} {
		if _, err := tx.Exec(
			"INSERT INTO settings (name, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
			name, values[name],
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	s.Audit.Record(auditmodels.Event{
		ActorID: actorID,
		Action:  "settings.update",
		Entity:  "settings",
	})
	return nil
}
