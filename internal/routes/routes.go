package routes

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	auditControllers "github.com/medifront/frontdesk-backend/internal/audit/controllers"
	auditServices "github.com/medifront/frontdesk-backend/internal/audit/services"
	"github.com/medifront/frontdesk-backend/internal/common/middlewares"
	patientControllers "github.com/medifront/frontdesk-backend/internal/patients/controllers"
	patientServices "github.com/medifront/frontdesk-backend/internal/patients/services"
	queueControllers "github.com/medifront/frontdesk-backend/internal/queue/controllers"
	queueServices "github.com/medifront/frontdesk-backend/internal/queue/services"
	registrationControllers "github.com/medifront/frontdesk-backend/internal/registration/controllers"
	registrationServices "github.com/medifront/frontdesk-backend/internal/registration/services"
	settingsControllers "github.com/medifront/frontdesk-backend/internal/settings/controllers"
	settingsServices "github.com/medifront/frontdesk-backend/internal/settings/services"
	staffControllers "github.com/medifront/frontdesk-backend/internal/staff/controllers"
	staffServices "github.com/medifront/frontdesk-backend/internal/staff/services"
	"github.com/medifront/frontdesk-backend/ws"
)

// Init wires services and controllers and registers every route.
func Init(e *echo.Echo, db *sql.DB) {
	auditService := auditServices.NewService(db)
	auditService.Start()

	ledgerService := queueServices.NewLedgerService(db)
	queueService := queueServices.NewQueueService(db, ledgerService, auditService)
	patientService := patientServices.NewPatientService(db, auditService)
	registrationService := registrationServices.NewPreRegistrationService(db, patientService, ledgerService, auditService)
	settingsService := settingsServices.NewSettingsService(db, auditService)
	staffService := staffServices.NewStaffService(db)

	queueController := queueControllers.NewQueueController(queueService, patientService)
	displayController := queueControllers.NewDisplayController(queueService, settingsService)
	registrationController := registrationControllers.NewPreRegistrationController(registrationService)
	patientController := patientControllers.NewPatientController(patientService)
	staffController := staffControllers.NewStaffController(staffService)
	auditController := auditControllers.NewAuditController(auditService)
	settingsController := settingsControllers.NewSettingsController(settingsService)

	api := e.Group("/api")

	// Public endpoints: intake form and the waiting-room display.
	api.POST("/pre-registrations", registrationController.SubmitHandler)
	api.GET("/queue/display", displayController.DisplayHandler)
	api.GET("/ws/display", ws.ServeWS(ws.HubInstance))
	api.POST("/staff/login", staffController.LoginHandler)

	// Staff endpoints.
	queue := api.Group("/queue", middlewares.JWTMiddleware())
	queue.GET("", queueController.ListHandler)
	queue.POST("", queueController.CreateHandler)
	queue.GET("/statistics", queueController.StatisticsHandler)
	queue.PUT("/:id", queueController.TransitionHandler)

	preReg := api.Group("/pre-registrations", middlewares.JWTMiddleware())
	preReg.GET("", registrationController.ListHandler)
	preReg.POST("/:id/approve", registrationController.ApproveHandler)
	preReg.POST("/:id/reject", registrationController.RejectHandler)

	patients := api.Group("/patients", middlewares.JWTMiddleware())
	patients.POST("", patientController.CreateHandler)
	patients.GET("", patientController.ListHandler)
	patients.GET("/:id", patientController.GetHandler)

	api.GET("/audit-logs", auditController.ListHandler, middlewares.JWTMiddleware())

	settings := api.Group("/settings", middlewares.JWTMiddleware())
	settings.GET("", settingsController.GetHandler)
	settings.PUT("", settingsController.UpdateHandler)
}
