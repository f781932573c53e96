package routes

import (
	"net/http"
	"time"

	"monet/config"
	"monet/handlers"
	"monet/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes registers free/busy set endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle, limiter gin.HandlerFunc) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.ActorMiddleware())
		api.GET("/:userId", hb.GetAvailabilityHandler)
		api.GET("/:userId/busy", hb.GetBusyWindowHandler)
		api.POST("", limiter, hb.SubmitAvailabilityHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle, limiter gin.HandlerFunc) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.ActorMiddleware())
		api.GET("", hb.ListBookingsHandler)
		api.GET("/:bookingId", hb.GetBookingHandler)

		api.POST("", limiter, hb.RequestBookingHandler)
		api.POST("/:bookingId/accept", limiter, hb.AcceptBookingHandler)
		api.POST("/:bookingId/decline", limiter, hb.DeclineBookingHandler)
		api.POST("/:bookingId/cancel", limiter, hb.CancelBookingHandler)
		api.POST("/:bookingId/join", limiter, hb.RecordJoinHandler)
	}
}

// RegisterFeedbackRoutes registers feedback submission and QC endpoints.
func RegisterFeedbackRoutes(r *gin.Engine, hb *handlers.HandlerBundle, limiter gin.HandlerFunc) {
	api := r.Group("/api/feedback")
	{
		api.Use(middleware.ActorMiddleware())
		api.POST("/:bookingId", limiter, hb.SubmitFeedbackHandler)
		api.POST("/:bookingId/qc", limiter, hb.RunQCHandler)
	}
}

// RegisterPayoutRoutes registers payout profile endpoints.
func RegisterPayoutRoutes(r *gin.Engine, hb *handlers.HandlerBundle, limiter gin.HandlerFunc) {
	api := r.Group("/api/payouts")
	{
		api.Use(middleware.ActorMiddleware())
		api.GET("/profile", hb.GetPayoutProfileHandler)
		api.PUT("/profile", limiter, hb.UpsertPayoutProfileHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.ActorMiddleware(), middleware.RequireAdmin())
		adminGroup.POST("/qc/:bookingId/override", hb.OverrideQCHandler)
		adminGroup.POST("/payouts/:bookingId/release", hb.RequestPayoutHandler)
		adminGroup.POST("/bookings/:bookingId/refund", hb.RefundBookingHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, counter middleware.WindowCounter) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-User-ID", "X-User-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	limiter := middleware.ActorRateLimitMiddleware(counter,
		config.AppConfig.RateLimitRequests,
		time.Duration(config.AppConfig.RateLimitWindow)*time.Second)

	RegisterAvailabilityRoutes(r, hb, limiter)
	RegisterBookingRoutes(r, hb, limiter)
	RegisterFeedbackRoutes(r, hb, limiter)
	RegisterPayoutRoutes(r, hb, limiter)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
