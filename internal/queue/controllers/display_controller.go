package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medifront/frontdesk-backend/internal/queue/models"
	"github.com/medifront/frontdesk-backend/internal/queue/services"
	settings "github.com/medifront/frontdesk-backend/internal/settings/services"
)

// nextUpCount is how many upcoming numbers the waiting-room screen shows.
const nextUpCount = 3

type DisplayController struct {
	QueueService    *services.QueueService
	SettingsService *settings.SettingsService
}

func NewDisplayController(queueService *services.QueueService, settingsService *settings.SettingsService) *DisplayController {
	return &DisplayController{QueueService: queueService, SettingsService: settingsService}
}

type displayEntry struct {
	ID          int64  `json:"id"`
	QueueNumber int    `json:"queue_number"`
	Label       string `json:"label"`
}

// DisplayHandler feeds the public waiting-room screen: the number being
// served plus the next few waiting, rendered with the configured prefix.
func (dc *DisplayController) DisplayHandler(c echo.Context) error {
	today := time.Now()

	cfg, err := dc.SettingsService.Get()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to load display settings: " + err.Error(),
			"data":    nil,
		})
	}

	serving, err := dc.QueueService.NowServing(today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to load now serving: " + err.Error(),
			"data":    nil,
		})
	}

	waiting, err := dc.QueueService.NextUp(today, nextUpCount)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to load next up: " + err.Error(),
			"data":    nil,
		})
	}

	var nowServing *displayEntry
	if serving != nil {
		nowServing = toDisplayEntry(serving, cfg.QueuePrefix)
	}
	nextUp := make([]displayEntry, 0, len(waiting))
	for i := range waiting {
		nextUp = append(nextUp, *toDisplayEntry(&waiting[i], cfg.QueuePrefix))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Display retrieved successfully",
		"data": map[string]interface{}{
			"now_serving":  nowServing,
			"next_up":      nextUp,
			"opening_time": cfg.OpeningTime,
			"closing_time": cfg.ClosingTime,
		},
	})
}

func toDisplayEntry(e *models.QueueEntry, prefix string) *displayEntry {
	return &displayEntry{
		ID:          e.ID,
		QueueNumber: e.QueueNumber,
		Label:       fmt.Sprintf("%s-%03d", prefix, e.QueueNumber),
	}
}
