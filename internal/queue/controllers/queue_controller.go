package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medifront/frontdesk-backend/internal/common/middlewares"
	patients "github.com/medifront/frontdesk-backend/internal/patients/services"
	"github.com/medifront/frontdesk-backend/internal/queue/models"
	"github.com/medifront/frontdesk-backend/internal/queue/services"
	"github.com/medifront/frontdesk-backend/ws"
)

type QueueController struct {
	QueueService   *services.QueueService
	PatientService *patients.PatientService
}

func NewQueueController(queueService *services.QueueService, patientService *patients.PatientService) *QueueController {
	return &QueueController{QueueService: queueService, PatientService: patientService}
}

// parseDate reads ?date=YYYY-MM-DD, defaulting to today.
func parseDate(c echo.Context) (time.Time, error) {
	dateStr := c.QueryParam("date")
	if dateStr == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", dateStr)
}

// ListHandler returns every entry for the date in queue order.
func (qc *QueueController) ListHandler(c echo.Context) error {
	date, err := parseDate(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "date must be in YYYY-MM-DD format",
			"data":    nil,
		})
	}

	entries, err := qc.QueueService.ListForDate(date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to list queue: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Queue retrieved successfully",
		"data":    entries,
	})
}

type createEntryRequest struct {
	PatientID      int64  `json:"patient_id"`
	ReasonForVisit string `json:"reason_for_visit"`
	QueueDate      string `json:"queue_date"`
}

// CreateHandler registers a walk-in patient into today's queue.
func (qc *QueueController) CreateHandler(c echo.Context) error {
	var req createEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	fields := map[string]string{}
	if req.PatientID == 0 {
		fields["patient_id"] = "is required"
	}
	if req.ReasonForVisit == "" {
		fields["reason_for_visit"] = "is required"
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"status":  http.StatusUnprocessableEntity,
			"message": "Validation failed",
			"data":    fields,
		})
	}

	date := time.Now()
	if req.QueueDate != "" {
		var err error
		date, err = time.Parse("2006-01-02", req.QueueDate)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"status":  http.StatusUnprocessableEntity,
				"message": "Validation failed",
				"data":    map[string]string{"queue_date": "must be in YYYY-MM-DD format"},
			})
		}
	}

	if _, err := qc.PatientService.GetByID(req.PatientID); err != nil {
		if errors.Is(err, patients.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Patient not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to look up patient: " + err.Error(),
			"data":    nil,
		})
	}

	entry, err := qc.QueueService.Create(date, req.PatientID, req.ReasonForVisit, middlewares.ActorID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to create queue entry: " + err.Error(),
			"data":    nil,
		})
	}

	ws.HubInstance.BroadcastQueueUpdate(map[string]interface{}{
		"id":           entry.ID,
		"queue_number": entry.QueueNumber,
		"status":       entry.Status,
	})

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Queue entry created",
		"data":    entry,
	})
}

type transitionRequest struct {
	Status string `json:"status"`
}

// TransitionHandler moves an entry to the requested status.
func (qc *QueueController) TransitionHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id must be a number",
			"data":    nil,
		})
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	target, err := models.ParseStatus(req.Status)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"status":  http.StatusUnprocessableEntity,
			"message": "Validation failed",
			"data":    map[string]string{"status": "must be one of waiting, serving, served, skipped"},
		})
	}

	entry, err := qc.QueueService.Transition(id, target, middlewares.ActorID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Queue entry not found",
				"data":    nil,
			})
		case errors.Is(err, models.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"status":  http.StatusConflict,
				"message": err.Error(),
				"data":    nil,
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"status":  http.StatusInternalServerError,
				"message": "Failed to update queue entry: " + err.Error(),
				"data":    nil,
			})
		}
	}

	ws.HubInstance.BroadcastQueueUpdate(map[string]interface{}{
		"id":           entry.ID,
		"queue_number": entry.QueueNumber,
		"status":       entry.Status,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Queue entry updated",
		"data":    entry,
	})
}

// StatisticsHandler returns per-status counts for the date.
func (qc *QueueController) StatisticsHandler(c echo.Context) error {
	date, err := parseDate(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "date must be in YYYY-MM-DD format",
			"data":    nil,
		})
	}

	stats, err := qc.QueueService.Statistics(date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to compute statistics: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Statistics retrieved successfully",
		"data":    stats,
	})
}
