package routes

import (
	"fursa_connect/internal/controllers"
	"fursa_connect/internal/middleware"
	"fursa_connect/internal/models"

	"github.com/gin-gonic/gin"
)

func ApplicationRoutes(r *gin.Engine) {
	// Youth submissions
	youth := r.Group("/applications")
	youth.Use(middleware.RequireAuthWithRole(models.RoleYouth))
	{
		youth.POST("", controllers.CreateApplication)
		youth.GET("/my-applications", controllers.GetMyApplications)
	}

	// Donor review pipeline
	donor := r.Group("/applications")
	donor.Use(middleware.RequireAuthWithRole(models.RoleDonor))
	{
		donor.GET("/opportunity/:opportunityId", controllers.GetOpportunityApplications)
		donor.PUT("/:applicationId/status", controllers.UpdateApplicationStatus)
	}

	// Detail view, access checked against youth/donor ownership
	authed := r.Group("/applications")
	authed.Use(middleware.RequireAuth())
	{
		authed.GET("/:applicationId", controllers.GetApplication)
	}
}
