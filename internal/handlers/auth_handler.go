package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkamande/quickride/internal/middleware"
	"github.com/mkamande/quickride/internal/models"
	"github.com/mkamande/quickride/internal/services"
)

// Register creates a passenger or basic driver account.
func Register(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reqBody struct {
			Name          string `json:"name" binding:"required"`
			Email         string `json:"email" binding:"required,email"`
			Password      string `json:"password" binding:"required"`
			Phone         string `json:"phone" binding:"required"`
			UserType      string `json:"user_type" binding:"required,oneof=passenger driver"`
			LicenseNumber string `json:"license_number"`
			VehicleType   string `json:"vehicle_type"`
			LicensePlate  string `json:"license_plate"`
		}

		if err := c.ShouldBindJSON(&reqBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		user, token, err := u.Register(c.Request.Context(), services.RegisterInput{
			Name:          reqBody.Name,
			Email:         reqBody.Email,
			Password:      reqBody.Password,
			Phone:         reqBody.Phone,
			UserType:      reqBody.UserType,
			LicenseNumber: reqBody.LicenseNumber,
			VehicleType:   reqBody.VehicleType,
			LicensePlate:  reqBody.LicensePlate,
		})
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "User created successfully",
			"token":   token,
			"user":    user.View(),
		})
	}
}

// RegisterDriver handles the full driver onboarding form.
func RegisterDriver(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reqBody struct {
			FirstName        string                  `json:"first_name" binding:"required"`
			LastName         string                  `json:"last_name" binding:"required"`
			Email            string                  `json:"email" binding:"required,email"`
			Password         string                  `json:"password" binding:"required"`
			Phone            string                  `json:"phone" binding:"required"`
			IDNumber         string                  `json:"id_number" binding:"required"`
			Address          string                  `json:"address" binding:"required"`
			City             string                  `json:"city" binding:"required"`
			County           string                  `json:"county" binding:"required"`
			EmergencyContact models.EmergencyContact `json:"emergency_contact"`
			VehicleType      string                  `json:"vehicle_type"`
			VehicleMake      string                  `json:"vehicle_make"`
			VehicleModel     string                  `json:"vehicle_model"`
			VehicleYear      int                     `json:"vehicle_year"`
			VehicleColor     string                  `json:"vehicle_color"`
			LicensePlate     string                  `json:"license_plate"`
			LicenseNumber    string                  `json:"license_number"`
		}

		if err := c.ShouldBindJSON(&reqBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		user, token, err := u.RegisterDriver(c.Request.Context(), services.RegisterDriverInput{
			FirstName:        reqBody.FirstName,
			LastName:         reqBody.LastName,
			Email:            reqBody.Email,
			Password:         reqBody.Password,
			Phone:            reqBody.Phone,
			IDNumber:         reqBody.IDNumber,
			Address:          reqBody.Address,
			City:             reqBody.City,
			County:           reqBody.County,
			EmergencyContact: reqBody.EmergencyContact,
			VehicleType:      reqBody.VehicleType,
			VehicleMake:      reqBody.VehicleMake,
			VehicleModel:     reqBody.VehicleModel,
			VehicleYear:      reqBody.VehicleYear,
			VehicleColor:     reqBody.VehicleColor,
			LicensePlate:     reqBody.LicensePlate,
			LicenseNumber:    reqBody.LicenseNumber,
		})
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Driver registration submitted successfully! Your account will be activated after verification.",
			"token":   token,
			"user":    user.View(),
		})
	}
}

// Login authenticates with email and password and returns a token plus the
// caller's profile view.
func Login(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reqBody struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&reqBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		user, token, err := u.Login(c.Request.Context(), reqBody.Email, reqBody.Password)
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   token,
			"user":    user.View(),
		})
	}
}

// Me returns the authenticated caller's profile.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user.View()})
	}
}
