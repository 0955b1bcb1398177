package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medifront/frontdesk-backend/internal/audit/services"
)

type AuditController struct {
	Service *services.Service
}

func NewAuditController(service *services.Service) *AuditController {
	return &AuditController{Service: service}
}

// ListHandler returns the audit trail for ?date= (default today).
func (ac *AuditController) ListHandler(c echo.Context) error {
	date := time.Now()
	if dateStr := c.QueryParam("date"); dateStr != "" {
		var err error
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": "date must be in YYYY-MM-DD format",
				"data":    nil,
			})
		}
	}

	events, err := ac.Service.ListForDate(date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to list audit logs: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Audit logs retrieved successfully",
		"data":    events,
	})
}
