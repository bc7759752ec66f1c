package routes

import (
	"fursa_connect/internal/controllers"
	"fursa_connect/internal/middleware"
	"fursa_connect/internal/models"

	"github.com/gin-gonic/gin"
)

func VerificationRoutes(r *gin.Engine) {
	// Youth document intake
	youth := r.Group("/verification")
	youth.Use(middleware.RequireAuthWithRole(models.RoleYouth))
	{
		youth.POST("/documents", controllers.UploadDocument)
	}

	// Admin review and visit scheduling
	admin := r.Group("/verification")
	admin.Use(middleware.RequireAuthWithRole(models.RoleAdmin, models.RoleSuperAdmin))
	{
		admin.GET("/pending", controllers.GetPendingVerifications)
		admin.PUT("/:verificationId/review", controllers.AdminReviewVerification)
		admin.PUT("/:verificationId/assign", controllers.AssignFieldAgent)
		admin.POST("/schedule-visit", controllers.ScheduleVisit)
	}

	// Field-agent casework
	agent := r.Group("/verification")
	agent.Use(middleware.RequireAuthWithRole(models.RoleFieldAgent))
	{
		agent.GET("/field-agent", controllers.GetFieldAgentVerifications)
		agent.POST("/field-visit", controllers.CreateFieldVisit)
		agent.PUT("/:verificationId/complete", controllers.CompleteFieldVerification)
	}

	// Youth search for donors and admins
	search := r.Group("/verification")
	search.Use(middleware.RequireAuthWithRole(models.RoleDonor, models.RoleAdmin, models.RoleSuperAdmin))
	{
		search.GET("/search", controllers.SearchYouth)
	}
}
