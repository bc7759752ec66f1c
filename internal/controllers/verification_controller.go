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

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

type uploadDocumentInput struct {
	Type     string `json:"type" binding:"required,oneof=ID TRANSCRIPT RECOMMENDATION_LETTER"`
	FileName string `json:"file_name" binding:"required"`
	FileURL  string `json:"file_url" binding:"required,url"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size" binding:"omitempty,gt=0"`
}

// UploadDocument stores or replaces one of the caller's documents.
func UploadDocument(c *gin.Context) {
	var input uploadDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UploadDocument: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	document, action, err := services.UploadDocument(config.DB, currentUserID(c), services.UploadDocumentInput{
		Type:     input.Type,
		FileName: input.FileName,
		FileURL:  input.FileURL,
		MimeType: input.MimeType,
		Size:     input.Size,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document": document, "action": action})
}

// GetPendingVerifications lists cases awaiting admin review.
func GetPendingVerifications(c *gin.Context) {
	verifications, err := services.PendingVerifications(config.DB)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": verifications})
}

type adminReviewInput struct {
	Status string `json:"status" binding:"required,oneof=VERIFIED REJECTED UNDER_REVIEW"`
	Notes  string `json:"notes"`
}

// AdminReviewVerification records an admin decision on a case.
func AdminReviewVerification(c *gin.Context) {
	verificationID, ok := parseIDParam(c, "verificationId")
	if !ok {
		return
	}
	var input adminReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verification, err := services.AdminReview(config.DB, verificationID, currentUserID(c), input.Status, input.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verification": verification})
}

type assignFieldAgentInput struct {
	FieldAgentID uint `json:"field_agent_id" binding:"required"`
}

// AssignFieldAgent puts a named agent on a case.
func AssignFieldAgent(c *gin.Context) {
	verificationID, ok := parseIDParam(c, "verificationId")
	if !ok {
		return
	}
	var input assignFieldAgentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verification, err := services.AssignFieldAgent(config.DB, verificationID, input.FieldAgentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verification": verification})
}

type scheduleVisitInput struct {
	VerificationID   uint   `json:"verification_id" binding:"required"`
	VisitDate        string `json:"visit_date" binding:"required"`
	Notes            string `json:"notes"`
	PreferredAgentID *uint  `json:"preferred_agent_id"`
}

// ScheduleVisit books a field visit, matching an agent by locality when
// none is named.
func ScheduleVisit(c *gin.Context) {
	var input scheduleVisitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("ScheduleVisit: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	visitDate, err := time.Parse(time.RFC3339, input.VisitDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visit_date must be an ISO-8601 datetime"})
		return
	}

	visit, agent, err := services.ScheduleVisit(config.DB, services.ScheduleVisitInput{
		VerificationID:   input.VerificationID,
		VisitDate:        visitDate,
		Notes:            input.Notes,
		PreferredAgentID: input.PreferredAgentID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"visit": visit,
		"assigned_agent": gin.H{
			"ID":         agent.ID,
			"first_name": agent.FirstName,
			"last_name":  agent.LastName,
			"email":      agent.Email,
		},
	})
}

// GetFieldAgentVerifications lists the cases assigned to the caller.
func GetFieldAgentVerifications(c *gin.Context) {
	verifications, err := services.FieldAgentVerifications(config.DB, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": verifications})
}

type fieldVisitInput struct {
	VerificationID uint     `json:"verification_id" binding:"required"`
	VisitDate      string   `json:"visit_date" binding:"required"`
	Notes          string   `json:"notes"`
	Photos         []string `json:"photos" binding:"omitempty,dive,url"`
}

// CreateFieldVisit logs a visit against one of the caller's cases.
func CreateFieldVisit(c *gin.Context) {
	var input fieldVisitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	visitDate, err := time.Parse(time.RFC3339, input.VisitDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visit_date must be an ISO-8601 datetime"})
		return
	}

	visit, err := services.CreateFieldVisit(config.DB, currentUserID(c), services.FieldVisitInput{
		VerificationID: input.VerificationID,
		VisitDate:      visitDate,
		Notes:          input.Notes,
		Photos:         input.Photos,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"visit": visit})
}

type completeVerificationInput struct {
	Notes string `json:"notes"`
}

// CompleteFieldVerification marks one of the caller's cases VERIFIED.
func CompleteFieldVerification(c *gin.Context) {
	verificationID, ok := parseIDParam(c, "verificationId")
	if !ok {
		return
	}
	var input completeVerificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verification, err := services.CompleteFieldVerification(config.DB, verificationID, currentUserID(c), input.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verification": verification})
}

// SearchYouth filters youths by category, country, camp and verification
// status for donors and admins.
func SearchYouth(c *gin.Context) {
	filter := services.YouthFilter{
		Category: c.Query("category"),
		Country:  c.Query("country"),
		Camp:     c.Query("camp"),
		Status:   c.Query("status"),
	}
	youths, err := services.SearchYouth(config.DB, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": youths})
}
