package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditmodels "github.com/medifront/frontdesk-backend/internal/audit/models"
	patients "github.com/medifront/frontdesk-backend/internal/patients/services"
	"github.com/medifront/frontdesk-backend/internal/queue/services"
	settingsServices "github.com/medifront/frontdesk-backend/internal/settings/services"
)

type recorderStub struct{}

func (recorderStub) Record(auditmodels.Event) {}

var entryCols = []string{
	"id", "queue_number", "patient_id", "reason_for_visit", "status",
	"called_at", "served_at", "queue_date", "created_at", "updated_at",
}

func newController(t *testing.T) (*QueueController, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	queueSvc := services.NewQueueService(db, services.NewLedgerService(db), recorderStub{})
	return NewQueueController(queueSvc, patients.NewPatientService(db, recorderStub{})), mock
}

func TestTransitionHandlerRejectsUnknownStatus(t *testing.T) {
	qc, _ := newController(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/queue/9", strings.NewReader(`{"status":"done"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, qc.TransitionHandler(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTransitionHandlerMapsInvalidTransitionToConflict(t *testing.T) {
	qc, mock := newController(t)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(entryCols).
		AddRow(int64(9), 3, int64(42), "checkup", "served", day, day, day, day, day)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? FOR UPDATE")).
		WithArgs(int64(9)).
		WillReturnRows(rows)
	mock.ExpectRollback()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/queue/9", strings.NewReader(`{"status":"waiting"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, qc.TransitionHandler(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHandlerUnknownPatient(t *testing.T) {
	qc, mock := newController(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM patients WHERE id = ?")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "full_name", "date_of_birth", "gender", "address", "contact_number",
			"civil_status", "religion", "philhealth_id", "created_at", "updated_at",
		}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/queue",
		strings.NewReader(`{"patient_id":404,"reason_for_visit":"checkup"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, qc.CreateHandler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisplayHandlerRendersPrefixedLabels(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	queueSvc := services.NewQueueService(db, services.NewLedgerService(db), recorderStub{})
	settingsSvc := settingsServices.NewSettingsService(db, recorderStub{})
	dc := NewDisplayController(queueSvc, settingsSvc)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, value FROM settings")).
		WillReturnRows(sqlmock.NewRows([]string{"name", "value"}).AddRow("queue_prefix", "A"))

	day := time.Now()
	serving := sqlmock.NewRows(entryCols).
		AddRow(int64(2), 2, int64(42), "checkup", "serving", day, nil, day, day, day)
	mock.ExpectQuery(regexp.QuoteMeta("status = ?")).
		WillReturnRows(serving)

	waiting := sqlmock.NewRows(entryCols).
		AddRow(int64(3), 3, int64(43), "follow-up", "waiting", nil, nil, day, day, day)
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT ?")).
		WillReturnRows(waiting)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/queue/display", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, dc.DisplayHandler(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			NowServing *struct {
				Label string `json:"label"`
			} `json:"now_serving"`
			NextUp []struct {
				Label string `json:"label"`
			} `json:"next_up"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Data.NowServing)
	assert.Equal(t, "A-002", body.Data.NowServing.Label)
	require.Len(t, body.Data.NextUp, 1)
	assert.Equal(t, "A-003", body.Data.NextUp[0].Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}
