package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fursa_connect/internal/config"
	"fursa_connect/internal/services"
)

// GetProfile returns the authenticated user's profile.
func GetProfile(c *gin.Context) {
	user, err := services.UserByID(config.DB, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateProfileInput struct {
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	Phone            *string `json:"phone"`
	Category         *string `json:"category"`
	Country          *string `json:"country"`
	Camp             *string `json:"camp"`
	Community        *string `json:"community"`
	DateOfBirth      *string `json:"date_of_birth"`
	Gender           *string `json:"gender"`
	OrganizationName *string `json:"organization_name"`
	OrganizationType *string `json:"organization_type"`
}

// UpdateProfile applies a partial update to the caller's profile.
func UpdateProfile(c *gin.Context) {
	var input updateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Category != nil {
		if err := validateCategory(*input.Category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	serviceInput := services.UpdateProfileInput{
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Phone:            input.Phone,
		Category:         input.Category,
		Country:          input.Country,
		Camp:             input.Camp,
		Community:        input.Community,
		Gender:           input.Gender,
		OrganizationName: input.OrganizationName,
		OrganizationType: input.OrganizationType,
	}
	if input.DateOfBirth != nil {
		dateOfBirth, err := parseDateOfBirth(*input.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		serviceInput.DateOfBirth = dateOfBirth
	}

	user, err := services.UpdateProfile(config.DB, currentUserID(c), serviceInput)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetMyDocuments lists the caller's documents, newest upload first.
func GetMyDocuments(c *gin.Context) {
	documents, err := services.UserDocuments(config.DB, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": documents})
}

// GetMyVerification returns the caller's verification case with its
// reviewer summaries and visit history.
func GetMyVerification(c *gin.Context) {
	verification, err := services.UserVerification(config.DB, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verification": verification})
}
