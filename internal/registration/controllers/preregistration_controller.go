package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medifront/frontdesk-backend/internal/common/middlewares"
	"github.com/medifront/frontdesk-backend/internal/registration/models"
	"github.com/medifront/frontdesk-backend/internal/registration/services"
	"github.com/medifront/frontdesk-backend/ws"
)

type PreRegistrationController struct {
	Service *services.PreRegistrationService
}

func NewPreRegistrationController(service *services.PreRegistrationService) *PreRegistrationController {
	return &PreRegistrationController{Service: service}
}

type submitRequest struct {
	FullName       string `json:"full_name"`
	DateOfBirth    string `json:"date_of_birth"`
	Gender         string `json:"gender"`
	Address        string `json:"address"`
	ContactNumber  string `json:"contact_number"`
	CivilStatus    string `json:"civil_status"`
	Religion       string `json:"religion"`
	PhilhealthID   string `json:"philhealth_id"`
	ReasonForVisit string `json:"reason_for_visit"`
}

// SubmitHandler accepts a public visit request and stages it as pending.
func (pc *PreRegistrationController) SubmitHandler(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	reg := &models.PreRegistration{
		FullName:       req.FullName,
		Gender:         req.Gender,
		Address:        req.Address,
		ContactNumber:  req.ContactNumber,
		CivilStatus:    req.CivilStatus,
		Religion:       req.Religion,
		PhilhealthID:   req.PhilhealthID,
		ReasonForVisit: req.ReasonForVisit,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"status":  http.StatusUnprocessableEntity,
				"message": "Validation failed",
				"data":    map[string]string{"date_of_birth": "must be in YYYY-MM-DD format"},
			})
		}
		reg.DateOfBirth = dob
	}

	reg, err := pc.Service.Submit(reg)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"status":  http.StatusUnprocessableEntity,
				"message": "Validation failed",
				"data":    verr.Fields,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to submit pre-registration: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Pre-registration submitted",
		"data":    reg,
	})
}

// ListHandler returns requests filtered by ?status=.
func (pc *PreRegistrationController) ListHandler(c echo.Context) error {
	status := c.QueryParam("status")
	switch status {
	case "", string(models.PreRegPending), string(models.PreRegApproved), string(models.PreRegRejected):
	default:
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "status must be one of pending, approved, rejected",
			"data":    nil,
		})
	}

	regs, err := pc.Service.List(status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to list pre-registrations: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Pre-registrations retrieved successfully",
		"data":    regs,
	})
}

// ApproveHandler converts a pending request into a patient and queue entry.
func (pc *PreRegistrationController) ApproveHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id must be a number",
			"data":    nil,
		})
	}

	patient, entry, err := pc.Service.Approve(id, middlewares.ActorID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Pre-registration not found",
				"data":    nil,
			})
		case errors.Is(err, services.ErrInvalidState):
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"status":  http.StatusConflict,
				"message": err.Error(),
				"data":    nil,
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"status":  http.StatusInternalServerError,
				"message": "Failed to approve pre-registration: " + err.Error(),
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
		"message": "Pre-registration approved",
		"data": map[string]interface{}{
			"patient":     patient,
			"queue_entry": entry,
		},
	})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// RejectHandler finalizes a pending request without creating anything.
func (pc *PreRegistrationController) RejectHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id must be a number",
			"data":    nil,
		})
	}

	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	reg, err := pc.Service.Reject(id, middlewares.ActorID(c), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Pre-registration not found",
				"data":    nil,
			})
		case errors.Is(err, services.ErrInvalidState):
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"status":  http.StatusConflict,
				"message": err.Error(),
				"data":    nil,
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"status":  http.StatusInternalServerError,
				"message": "Failed to reject pre-registration: " + err.Error(),
				"data":    nil,
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Pre-registration rejected",
		"data":    reg,
	})
}
