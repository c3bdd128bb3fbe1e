package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/handlers"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
	ucSchedule "github.com/BruksfildServices01/booking-engine/internal/usecase/schedule"
)

// Deps are the long-lived collaborators built once in main.
type Deps struct {
	Config *config.Config
	Log    *zerolog.Logger

	Appointments domain.Repository
	Blocks       domain.BlockRepository
	Catalog      domain.CatalogRepository
	AuditStore   audit.Store

	Locker    domain.Locker
	Publisher domain.EventPublisher
	Audit     *audit.Dispatcher

	// Ready reports storage health for /health; nil means always ready.
	Ready func() error
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.App.AllowedOrigins()))

	// ======================================================
	// USE CASES
	// ======================================================
	defaults := domain.Defaults{
		MinAdvanceHours:     cfg.Booking.MinAdvanceHours,
		MaxAdvanceDays:      cfg.Booking.MaxAdvanceDays,
		SlotIntervalMinutes: cfg.Booking.SlotIntervalMinutes,
		BufferMinutes:       cfg.Booking.BufferMinutes,
	}

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		d.Appointments,
		d.Blocks,
		d.Locker,
		d.Publisher,
		d.Audit,
		defaults,
		d.Log,
	)
	availabilityUC := ucAppointment.NewGetAvailability(d.Appointments, d.Blocks, defaults)
	updateStatusUC := ucAppointment.NewUpdateStatus(d.Appointments, d.Publisher, d.Audit, d.Log)
	updatePaymentUC := ucAppointment.NewUpdatePayment(d.Appointments, d.Audit, d.Log)
	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(d.Appointments, d.Audit)
	listByDateUC := ucAppointment.NewListAppointmentsByDate(d.Appointments)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(d.Appointments)

	recurrence := ucSchedule.RecurrenceOptions{
		HorizonDays: cfg.Booking.RecurrenceHorizonDays,
		Skip:        cfg.Booking.SkipWeekday(),
		BatchSize:   cfg.Booking.BatchSize,
	}

	createBlockUC := ucSchedule.NewCreateScheduleBlock(d.Catalog, d.Blocks, d.Audit)
	lunchUC := ucSchedule.NewCreateRecurringLunchBlock(d.Catalog, d.Blocks, d.Audit, recurrence, d.Log)
	extendUC := ucSchedule.NewExtendRecurrence(d.Catalog, d.Blocks, d.Audit, recurrence, d.Log)
	deleteBlockUC := ucSchedule.NewDeleteScheduleBlock(d.Blocks, d.Audit)
	deleteRecurrenceUC := ucSchedule.NewDeleteRecurrence(d.Blocks, d.Audit)
	listBlocksUC := ucSchedule.NewListScheduleBlocks(d.Catalog, d.Blocks)

	// ======================================================
	// HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(d.Catalog, availabilityUC, createAppointmentUC)
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		availabilityUC,
		updateStatusUC,
		updatePaymentUC,
		deleteAppointmentUC,
		listByDateUC,
		listByMonthUC,
	)
	tenantHandler := handlers.NewTenantHandler(d.Catalog)
	employeeHandler := handlers.NewEmployeeHandler(d.Catalog)
	serviceHandler := handlers.NewServiceHandler(d.Catalog)
	clientHandler := handlers.NewClientHandler(d.Catalog)
	scheduleHandler := handlers.NewScheduleHandler(
		createBlockUC,
		lunchUC,
		extendUC,
		deleteBlockUC,
		deleteRecurrenceUC,
		listBlocksUC,
	)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditStore)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": cfg.App.Version,
			"time":    time.Now().UTC(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		limiter := middleware.NewRateLimiter(cfg.RateLimit)

		publicAPI := api.Group("/public")
		publicAPI.Use(limiter.Middleware())
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/employees", publicHandler.ListEmployees)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// SECURED (tenant from token)
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg.Auth))
		{
			secured.GET("/tenant", tenantHandler.Get)
			secured.PATCH("/tenant", tenantHandler.Update)

			secured.GET("/employees", employeeHandler.List)
			secured.POST("/employees", employeeHandler.Create)
			secured.PATCH("/employees/:id", employeeHandler.Update)
			secured.GET("/employees/:id/working-hours", employeeHandler.GetWorkingHours)
			secured.PUT("/employees/:id/working-hours", employeeHandler.ReplaceWorkingHours)

			secured.GET("/employees/:id/blocks", scheduleHandler.List)
			secured.POST("/employees/:id/blocks", scheduleHandler.Create)
			secured.POST("/employees/:id/lunch", scheduleHandler.CreateLunch)
			secured.DELETE("/blocks/:id", scheduleHandler.Delete)
			secured.POST("/recurrences/:rid/extend", scheduleHandler.Extend)
			secured.DELETE("/recurrences/:rid", scheduleHandler.DeleteRecurrence)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)

			secured.GET("/clients", clientHandler.List)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/availability", appointmentHandler.Availability)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
			secured.PATCH("/appointments/:id/payment", appointmentHandler.UpdatePayment)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
