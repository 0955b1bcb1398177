package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medifront/frontdesk-backend/internal/common/middlewares"
	"github.com/medifront/frontdesk-backend/internal/settings/models"
	"github.com/medifront/frontdesk-backend/internal/settings/services"
)

type SettingsController struct {
	Service *services.SettingsService
}

func NewSettingsController(service *services.SettingsService) *SettingsController {
	return &SettingsController{Service: service}
}

// GetHandler returns the current display settings.
func (sc *SettingsController) GetHandler(c echo.Context) error {
	settings, err := sc.Service.Get()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to load settings: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Settings retrieved successfully",
		"data":    settings,
	})
}

// UpdateHandler replaces the display settings.
func (sc *SettingsController) UpdateHandler(c echo.Context) error {
	var req models.Settings
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request body",
			"data":    nil,
		})
	}
	if strings.TrimSpace(req.QueuePrefix) == "" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"status":  http.StatusUnprocessableEntity,
			"message": "Validation failed",
			"data":    map[string]string{"queue_prefix": "is required"},
		})
	}

	if err := sc.Service.Update(&req, middlewares.ActorID(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to update settings: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Settings updated",
		"data":    req,
	})
}
