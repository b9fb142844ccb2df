package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/PampangaDental/clinic-scheduler/internal/audit"
	"github.com/PampangaDental/clinic-scheduler/internal/config"
	"github.com/PampangaDental/clinic-scheduler/internal/handlers"
	infraRepo "github.com/PampangaDental/clinic-scheduler/internal/infra/repository"
	"github.com/PampangaDental/clinic-scheduler/internal/middleware"
	"github.com/PampangaDental/clinic-scheduler/internal/notify"
	ucAppointment "github.com/PampangaDental/clinic-scheduler/internal/usecase/appointment"
	ucDashboard "github.com/PampangaDental/clinic-scheduler/internal/usecase/dashboard"
	"github.com/PampangaDental/clinic-scheduler/internal/weather"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cache *redis.Client, cfg *config.Config, log zerolog.Logger) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	patientRepo := infraRepo.NewPatientGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	var sender notify.Sender = notify.NewLogSender(log)
	if s := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		ToEmail:   cfg.ClinicEmail,
	}, log); s != nil {
		sender = s
	}
	notifyDispatcher := notify.NewDispatcher(sender, log)

	weatherClient := weather.NewClient(cfg.WeatherAPIKey, cache, log)

	// ======================================================
	// USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		patientRepo,
		auditDispatcher,
		notifyDispatcher,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	transitionAppointmentUC := ucAppointment.NewTransitionAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)

	homeViewUC := ucDashboard.NewHomeView(appointmentRepo)
	buildChartUC := ucDashboard.NewBuildChart(appointmentRepo)
	patientRollupUC := ucDashboard.NewPatientRollup(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	bookingHandler := handlers.NewBookingHandler(createAppointmentUC, notifyDispatcher)
	dashboardHandler := handlers.NewDashboardHandler(homeViewUC, buildChartUC, weatherClient, cfg)
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		transitionAppointmentUC,
		listAppointmentsUC,
		cfg,
	)
	patientHandler := handlers.NewPatientHandler(patientRollupUC, cfg)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.POST("/appointments", bookingHandler.CreateAppointment)
			publicAPI.POST("/contact", bookingHandler.Contact)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// STAFF DASHBOARD
		// ------------------------------
		secured := api.Group("/dashboard")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/home", dashboardHandler.Home)
			secured.GET("/chart", dashboardHandler.Chart)

			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.POST("/appointments/action", appointmentHandler.Action)

			secured.GET("/patients", patientHandler.Rollup)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
