package routes

import (
	"time"

	"termino-backend/handlers"
	"termino-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	tenantHandler := &handlers.TenantHandler{DB: db}
	staffHandler := &handlers.StaffHandler{DB: db}
	reservationHandler := &handlers.ReservationHandler{DB: db}
	contactHandler := &handlers.ContactHandler{DB: db}
	callHandler := &handlers.CallHandler{DB: db}
	availabilityHandler := &handlers.AvailabilityHandler{DB: db}
	voiceAgentHandler := &handlers.VoiceAgentHandler{DB: db}

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
	}

	// Integration routes (API key auth, rate limited per key)
	rateLimiter := middleware.NewRateLimiter(60, 1*time.Minute)
	integration := api.Group("")
	integration.Use(rateLimiter.Middleware())
	{
		integration.POST("/check-availability", middleware.ApiKeyMiddleware(db), availabilityHandler.CheckAvailability)
		// The voice agent may carry the key in the body instead of the
		// header, so the handler resolves the tenant itself.
		integration.POST("/voice-agent-calendar", voiceAgentHandler.Calendar)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.PUT("/auth/profile", authHandler.UpdateProfile)
		protected.PUT("/auth/password", authHandler.ChangePassword)
	}

	// Portal routes (owner or staff of a tenant)
	portal := api.Group("/portal")
	portal.Use(middleware.AuthMiddleware())
	portal.Use(middleware.TenantMiddleware())
	{
		portal.GET("/tenant", tenantHandler.GetMyTenant)
		portal.PUT("/tenant", middleware.OwnerMiddleware(), tenantHandler.UpdateMyTenant)
		portal.GET("/tenant/hours", tenantHandler.GetOpeningHours)
		portal.PUT("/tenant/hours", tenantHandler.UpdateOpeningHours)
		portal.GET("/tenant/keys", middleware.OwnerMiddleware(), tenantHandler.GetApiKeys)
		portal.POST("/tenant/keys/rotate", middleware.OwnerMiddleware(), tenantHandler.RotateApiKey)

		portal.GET("/staff", staffHandler.ListStaff)
		portal.POST("/staff", staffHandler.CreateStaff)
		portal.PUT("/staff/:id", staffHandler.UpdateStaff)
		portal.DELETE("/staff/:id", staffHandler.DeactivateStaff)
		portal.GET("/staff/:id/shifts", staffHandler.GetShifts)
		portal.PUT("/staff/:id/shifts", staffHandler.UpsertShift)
		portal.PUT("/staff/:id/shifts/bulk", staffHandler.BulkUpsertShifts)
		portal.GET("/staff/:id/exceptions", staffHandler.ListExceptions)
		portal.POST("/staff/:id/exceptions", staffHandler.CreateException)
		portal.DELETE("/staff/:id/exceptions/:exceptionId", staffHandler.DeleteException)
		portal.GET("/staff/:id/availability", staffHandler.GetAvailability)

		portal.GET("/reservations", reservationHandler.ListReservations)
		portal.POST("/reservations", reservationHandler.CreateReservation)
		portal.GET("/reservations/:id", reservationHandler.GetReservation)
		portal.PUT("/reservations/:id", reservationHandler.UpdateReservation)
		portal.PUT("/reservations/:id/status", reservationHandler.UpdateStatus)
		portal.DELETE("/reservations/:id", reservationHandler.CancelReservation)

		portal.GET("/contacts", contactHandler.ListContacts)
		portal.POST("/contacts", contactHandler.CreateContact)
		portal.PUT("/contacts/:id", contactHandler.UpdateContact)
		portal.DELETE("/contacts/:id", contactHandler.DeleteContact)

		portal.GET("/calls", callHandler.ListCalls)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/tenants", tenantHandler.ListTenants)
		admin.POST("/tenants", tenantHandler.CreateTenant)
		admin.PUT("/tenants/:id", tenantHandler.UpdateTenant)

		admin.GET("/users", authHandler.ListUsers)
		admin.PUT("/users/:id", authHandler.UpdateUser)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
