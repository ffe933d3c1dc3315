package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mkamande/quickride/internal/container"
	"github.com/mkamande/quickride/internal/handlers"
	"github.com/mkamande/quickride/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "quickride-api",
			})
		})

		// public routes
		v1.POST("/auth/register", handlers.Register(container.UserService))
		v1.POST("/auth/register/driver", handlers.RegisterDriver(container.UserService))
		v1.POST("/auth/login", handlers.Login(container.UserService))
		v1.GET("/drivers/available", handlers.AvailableDrivers(container.UserService))
		v1.GET("/drivers/:id", handlers.DriverProfile(container.UserService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.UserService, container.Logger))

	{
		protected.GET("/auth/me", handlers.Me())
		protected.PATCH("/drivers/availability", handlers.UpdateAvailability(container.UserService))
		protected.POST("/drivers/documents", handlers.UploadDocuments(container.UserService))
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("", handlers.CreateBooking(container.BookingService))
		bookingRoutes.GET("/mine", handlers.MyBookings(container.BookingService))
		bookingRoutes.GET("/available", handlers.AvailableBookings(container.BookingService))
		bookingRoutes.PATCH("/:id/accept", handlers.AcceptBooking(container.BookingService))
		bookingRoutes.PATCH("/:id/status", handlers.UpdateBookingStatus(container.BookingService))
	}

	return r
}
