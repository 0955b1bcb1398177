package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medifront/frontdesk-backend/internal/common/middlewares"
	"github.com/medifront/frontdesk-backend/internal/patients/models"
	"github.com/medifront/frontdesk-backend/internal/patients/services"
)

type PatientController struct {
	Service *services.PatientService
}

func NewPatientController(service *services.PatientService) *PatientController {
	return &PatientController{Service: service}
}

type createPatientRequest struct {
	FullName      string `json:"full_name"`
	DateOfBirth   string `json:"date_of_birth"`
	Gender        string `json:"gender"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
	CivilStatus   string `json:"civil_status"`
	Religion      string `json:"religion"`
	PhilhealthID  string `json:"philhealth_id"`
}

// CreateHandler registers a patient directly at the front desk.
func (pc *PatientController) CreateHandler(c echo.Context) error {
	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.FullName) == "" {
		fields["full_name"] = "is required"
	}
	switch req.Gender {
	case "male", "female", "other":
	case "":
		fields["gender"] = "is required"
	default:
		fields["gender"] = "must be one of male, female, other"
	}
	var dob time.Time
	if req.DateOfBirth == "" {
		fields["date_of_birth"] = "is required"
	} else {
		var err error
		dob, err = time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			fields["date_of_birth"] = "must be in YYYY-MM-DD format"
		}
	}
	if strings.TrimSpace(req.Address) == "" {
		fields["address"] = "is required"
	}
	if strings.TrimSpace(req.ContactNumber) == "" {
		fields["contact_number"] = "is required"
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"status":  http.StatusUnprocessableEntity,
			"message": "Validation failed",
			"data":    fields,
		})
	}

	patient := &models.Patient{
		FullName:      req.FullName,
		DateOfBirth:   dob,
		Gender:        req.Gender,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		CivilStatus:   req.CivilStatus,
		Religion:      req.Religion,
		PhilhealthID:  req.PhilhealthID,
	}
	patient, err := pc.Service.Create(patient, middlewares.ActorID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to register patient: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Patient registered",
		"data":    patient,
	})
}

// ListHandler searches the patient directory.
func (pc *PatientController) ListHandler(c echo.Context) error {
	patients, err := pc.Service.Search(c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to list patients: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Patients retrieved successfully",
		"data":    patients,
	})
}

// GetHandler returns one patient by id.
func (pc *PatientController) GetHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id must be a number",
			"data":    nil,
		})
	}

	patient, err := pc.Service.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Patient not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to load patient: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Patient retrieved successfully",
		"data":    patient,
	})
}
