package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkamande/quickride/internal/middleware"
	"github.com/mkamande/quickride/internal/models"
	"github.com/mkamande/quickride/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateBooking opens a new ride request for the authenticated caller.
func CreateBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var reqBody struct {
			Pickup      models.Location `json:"pickup" binding:"required"`
			Destination models.Location `json:"destination" binding:"required"`
			DistanceKm  float64         `json:"distance_km" binding:"required"`
			VehicleType string          `json:"vehicle_type"`
		}

		if err := c.ShouldBindJSON(&reqBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		booking, err := b.CreateBooking(c.Request.Context(), user.ID, services.CreateBookingInput{
			Pickup:      reqBody.Pickup,
			Destination: reqBody.Destination,
			DistanceKm:  reqBody.DistanceKm,
			VehicleType: reqBody.VehicleType,
		})
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Booking created successfully",
			"booking": booking,
		})
	}
}

// MyBookings lists the caller's bookings as passenger or driver.
func MyBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		bookings, err := b.ListForUser(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"bookings": bookings})
	}
}

// AvailableBookings lists pending bookings a driver could accept.
func AvailableBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		bookings, err := b.ListAvailable(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"bookings": bookings})
	}
}

// AcceptBooking claims a pending booking for the calling driver.
func AcceptBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}

		booking, err := b.AcceptBooking(c.Request.Context(), bookingID, user.ID)
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Booking accepted successfully",
			"booking": booking,
		})
	}
}

// UpdateBookingStatus moves a booking the caller is party to into a new
// state.
func UpdateBookingStatus(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}

		var reqBody struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&reqBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		booking, err := b.ChangeStatus(c.Request.Context(), bookingID, user.ID, reqBody.Status)
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Booking status updated",
			"booking": booking,
		})
	}
}
