package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fursa_connect/internal/config"
	"fursa_connect/internal/services"
)

type createOpportunityInput struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Requirements  string   `json:"requirements"`
	Category      []string `json:"category" binding:"required,min=1,dive,oneof=REFUGEE IDP VULNERABLE PWD"`
	Countries     []string `json:"countries" binding:"required,min=1"`
	Deadline      string   `json:"deadline"`
	MaxApplicants *int     `json:"max_applicants" binding:"omitempty,gt=0"`
}

// CreateOpportunity posts a new opportunity owned by the calling donor.
func CreateOpportunity(c *gin.Context) {
	var input createOpportunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateOpportunity: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var deadline *time.Time
	if input.Deadline != "" {
		parsed, err := time.Parse(time.RFC3339, input.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "deadline must be an ISO-8601 datetime"})
			return
		}
		deadline = &parsed
	}

	opportunity, err := services.CreateOpportunity(config.DB, currentUserID(c), services.CreateOpportunityInput{
		Title:         input.Title,
		Description:   input.Description,
		Requirements:  input.Requirements,
		Category:      input.Category,
		Countries:     input.Countries,
		Deadline:      deadline,
		MaxApplicants: input.MaxApplicants,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"opportunity": opportunity})
}

type updateOpportunityInput struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Requirements  *string  `json:"requirements"`
	Category      []string `json:"category" binding:"omitempty,dive,oneof=REFUGEE IDP VULNERABLE PWD"`
	Countries     []string `json:"countries"`
	Deadline      *string  `json:"deadline"`
	MaxApplicants *int     `json:"max_applicants" binding:"omitempty,gt=0"`
	IsActive      *bool    `json:"is_active"`
}

// UpdateOpportunity applies a partial update; owner only.
func UpdateOpportunity(c *gin.Context) {
	opportunityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input updateOpportunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	serviceInput := services.UpdateOpportunityInput{
		Title:         input.Title,
		Description:   input.Description,
		Requirements:  input.Requirements,
		Category:      input.Category,
		Countries:     input.Countries,
		MaxApplicants: input.MaxApplicants,
		IsActive:      input.IsActive,
	}
	if input.Deadline != nil {
		parsed, err := time.Parse(time.RFC3339, *input.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "deadline must be an ISO-8601 datetime"})
			return
		}
		serviceInput.Deadline = &parsed
	}

	opportunity, err := services.UpdateOpportunity(config.DB, opportunityID, currentUserID(c), serviceInput)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunity": opportunity})
}

// ListOpportunities is the public listing with optional filters.
func ListOpportunities(c *gin.Context) {
	filter := services.OpportunityFilter{
		Category: c.Query("category"),
		Country:  c.Query("country"),
	}
	if raw := c.Query("is_active"); raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_active must be a boolean"})
			return
		}
		filter.IsActive = &isActive
	}
	if raw := c.Query("donor_id"); raw != "" {
		donorID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donor_id"})
			return
		}
		filter.DonorID = uint(donorID)
	}

	opportunities, err := services.ListOpportunities(config.DB, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": opportunities})
}

// GetOpportunity is the public detail view with the application count.
func GetOpportunity(c *gin.Context) {
	opportunityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	opportunity, err := services.OpportunityByID(config.DB, opportunityID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	count, err := services.CountApplications(config.DB, opportunity.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunity": opportunity, "application_count": count})
}

// DeleteOpportunity removes an opportunity; owner only.
func DeleteOpportunity(c *gin.Context) {
	opportunityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteOpportunity(config.DB, opportunityID, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "opportunity deleted"})
}
