package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fursa_connect/internal/config"
	"fursa_connect/internal/services"
)

type createApplicationInput struct {
	OpportunityID  uint   `json:"opportunity_id" binding:"required"`
	CoverLetter    string `json:"cover_letter"`
	AdditionalInfo string `json:"additional_info"`
}

// CreateApplication submits the calling youth against an opportunity,
// subject to the eligibility gate.
func CreateApplication(c *gin.Context) {
	var input createApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	application, err := services.CreateApplication(config.DB, currentUserID(c), services.CreateApplicationInput{
		OpportunityID:  input.OpportunityID,
		CoverLetter:    input.CoverLetter,
		AdditionalInfo: input.AdditionalInfo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": application})
}

// GetMyApplications lists the calling youth's applications.
func GetMyApplications(c *gin.Context) {
	applications, err := services.YouthApplications(config.DB, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": applications})
}

// GetOpportunityApplications lists applications for one of the calling
// donor's opportunities.
func GetOpportunityApplications(c *gin.Context) {
	opportunityID, ok := parseIDParam(c, "opportunityId")
	if !ok {
		return
	}
	applications, err := services.OpportunityApplications(config.DB, opportunityID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": applications})
}

type updateApplicationStatusInput struct {
	Status string `json:"status" binding:"required,oneof=PENDING UNDER_REVIEW SELECTED REJECTED"`
}

// UpdateApplicationStatus moves an application through the donor's review
// pipeline.
func UpdateApplicationStatus(c *gin.Context) {
	applicationID, ok := parseIDParam(c, "applicationId")
	if !ok {
		return
	}
	var input updateApplicationStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	application, err := services.UpdateApplicationStatus(config.DB, applicationID, currentUserID(c), input.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": application})
}

// GetApplication returns one application to its youth or owning donor.
func GetApplication(c *gin.Context) {
	applicationID, ok := parseIDParam(c, "applicationId")
	if !ok {
		return
	}
	application, err := services.ApplicationByID(config.DB, applicationID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": application})
}
