package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/bashbay-events/internal/container"
	"github.com/joshua-takyi/bashbay-events/internal/handlers"
	"github.com/joshua-takyi/bashbay-events/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	secure := cfg.IsProduction()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	es := container.EventService
	bs := container.BookingService

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "bashbay-events-api",
			})
		})

		v1.POST("/login", handlers.Login(container.AuthService, secure))
		v1.POST("/logout", handlers.Logout(secure))
	}

	public := v1.Group("/public")
	{
		public.GET("/categories", handlers.GetCategories())
		public.GET("/events", handlers.GetPublishedEvents(es))
		public.GET("/join-tab", handlers.JoinTab(es, container.JoinTabFilter))
		public.GET("/join-tab/stream", handlers.JoinTabStream(es, container.JoinTabFilter, cfg.JoinTabRecheck, container.Logger))
		public.POST("/events/:id/views", handlers.TrackEventView(container.ViewService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Tokens, container.AuthService, secure, container.Logger))
	{
		protected.GET("/me", handlers.Me())
		protected.GET("/my-events", handlers.GetMyEvents(es))
	}

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.POST("", handlers.CreateEvent(es))
		eventRoutes.PATCH("/:id", handlers.UpdateEvent(es))
		eventRoutes.POST("/:id/publish", handlers.PublishEvent(es))
		eventRoutes.POST("/:id/hide/my-events", handlers.HideEventFromMyEvents(es))
		eventRoutes.POST("/:id/hide/join-tab", handlers.HideEventFromJoinTab(es))
		eventRoutes.POST("/:id/restore", handlers.RestoreEvent(es))
		eventRoutes.POST("/:id/image", handlers.UploadEventImage(es))

		eventRoutes.POST("/:id/bookings", handlers.BookEventServices(bs))
		eventRoutes.GET("/:id/bookings", handlers.GetEventServiceBookings(bs))
		eventRoutes.GET("/:id/bookings/total", handlers.GetEventBookingTotal(bs))

		eventRoutes.GET("/:id/views/stats", handlers.GetEventViewStats(container.ViewService))
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.PATCH("/:id", handlers.UpdateServiceBooking(bs))
		bookingRoutes.POST("/:id/cancel", handlers.CancelServiceBooking(bs))
	}

	savedRoutes := protected.Group("/saved-events")
	{
		savedRoutes.GET("", handlers.GetSavedEvents(container.SavedEventService))
		savedRoutes.POST("/:id", handlers.SaveEvent(container.SavedEventService))
		savedRoutes.DELETE("/:id", handlers.UnsaveEvent(container.SavedEventService))
	}

	return r
}
