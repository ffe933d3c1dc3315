package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkamande/quickride/internal/middleware"
	"github.com/mkamande/quickride/internal/models"
	"github.com/mkamande/quickride/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateAvailability lets a verified driver flip the availability flag and
// report a current location.
func UpdateAvailability(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var reqBody struct {
			IsAvailable     *bool            `json:"is_available"`
			CurrentLocation *models.Location `json:"current_location"`
		}
		if err := c.ShouldBindJSON(&reqBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		updated, err := u.UpdateAvailability(c.Request.Context(), user.ID, reqBody.IsAvailable, reqBody.CurrentLocation)
		if err != nil {
			c.JSON(statusFromErr(err), models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"id":               updated.ID,
			"is_available":     updated.IsAvailable,
			"current_location": updated.CurrentLocation,
		}, "Availability updated successfully"))
	}
}

// AvailableDrivers lists drivers currently open for dispatch.
func AvailableDrivers(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		drivers, err := u.ListAvailableDrivers(c.Request.Context())
		if err != nil {
			c.JSON(statusFromErr(err), models.ErrorResponse(err.Error()))
			return
		}

		cards := make([]models.DriverCard, 0, len(drivers))
		for _, d := range drivers {
			cards = append(cards, d.Card())
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"drivers": cards}, ""))
	}
}

// DriverProfile returns the public card of a verified driver.
func DriverProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("Driver not found"))
			return
		}

		card, err := u.GetDriverProfile(c.Request.Context(), driverID)
		if err != nil {
			c.JSON(statusFromErr(err), models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"driver": card}, ""))
	}
}

// UploadDocuments stores driver verification documents and the profile
// photo. Image values may be local paths or data URIs; they are pushed to
// Cloudinary and the resulting URLs saved on the driver record.
func UploadDocuments(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var reqBody struct {
			Documents map[string]string `json:"documents" binding:"required"`
		}
		if err := c.ShouldBindJSON(&reqBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		updated, err := u.UploadDocuments(c.Request.Context(), user.ID, reqBody.Documents)
		if err != nil {
			c.JSON(statusFromErr(err), models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"documents":     updated.Documents,
			"profile_photo": updated.ProfilePhoto,
		}, "Documents uploaded successfully"))
	}
}
