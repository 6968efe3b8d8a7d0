package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gymflow/handlers"
	"gymflow/middleware"
	"gymflow/models"
)

// RegisterAvailabilityRoutes registers slot query endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", handlers.GetAvailability)
		api.GET("/check", handlers.CheckSlot)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", handlers.CreateBooking)
		api.PUT("/:id/reschedule", handlers.RescheduleBooking)
		api.DELETE("/:id", handlers.CancelBooking)

		// Staff-side operations.
		staff := api.Group("")
		staff.Use(middleware.RequireRole(models.RoleStaff, models.RoleAdmin))
		staff.POST("/:id/checkin", handlers.CheckInBooking)
		staff.POST("/:id/complete", handlers.CompleteBooking)
		staff.GET("/staff/:staffID", handlers.ListStaffBookings)
		staff.GET("/sessions/:sessionID/roster", handlers.GetSessionRoster)
	}
}

// RegisterScheduleRoutes registers schedule management endpoints. All of
// them require a staff or admin role except read-only listings.
func RegisterScheduleRoutes(r *gin.Engine) {
	api := r.Group("/api/schedule")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/rules", handlers.ListRules)
		api.GET("/overrides", handlers.ListOverrides)
		api.GET("/holidays", handlers.ListHolidays)
		api.GET("/appointment-types", handlers.ListAppointmentTypes)
		api.GET("/sessions", handlers.ListSessions)

		manage := api.Group("")
		manage.Use(middleware.RequireRole(models.RoleStaff, models.RoleAdmin))
		manage.POST("/rules", handlers.CreateRule)
		manage.PUT("/rules/:id", handlers.UpdateRule)
		manage.PATCH("/rules/:id/enabled", handlers.SetRuleEnabled)
		manage.PUT("/overrides", handlers.UpsertOverride)
		manage.DELETE("/overrides/:id", handlers.DeleteOverride)
		manage.POST("/holidays", handlers.CreateHoliday)
		manage.DELETE("/holidays/:id", handlers.DeleteHoliday)
		manage.POST("/appointment-types", handlers.CreateAppointmentType)
		manage.PUT("/appointment-types/:id", handlers.UpdateAppointmentType)
		manage.POST("/sessions", handlers.CreateSession)
		manage.DELETE("/sessions/:id", handlers.CancelSession)
	}
}

// RegisterCalendarRoutes registers the external calendar linking flow. The
// callback is public because Google redirects the browser there.
func RegisterCalendarRoutes(r *gin.Engine) {
	api := r.Group("/api/calendar")
	{
		api.GET("/callback", handlers.CalendarCallback)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleStaff, models.RoleAdmin))
		protected.GET("/connect", handlers.ConnectCalendar)
		protected.GET("/status", handlers.CalendarStatus)
		protected.DELETE("", handlers.DisconnectCalendar)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r)
	RegisterBookingRoutes(r)
	RegisterScheduleRoutes(r)
	RegisterCalendarRoutes(r)
}
