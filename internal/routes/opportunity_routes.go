package routes

import (
	"fursa_connect/internal/controllers"
	"fursa_connect/internal/middleware"
	"fursa_connect/internal/models"

	"github.com/gin-gonic/gin"
)

func OpportunityRoutes(r *gin.Engine) {
	// Public browsing
	public := r.Group("/opportunities")
	{
		public.GET("", controllers.ListOpportunities)
		public.GET("/:id", controllers.GetOpportunity)
	}

	// Donor management, ownership enforced in the service layer
	donor := r.Group("/opportunities")
	donor.Use(middleware.RequireAuthWithRole(models.RoleDonor))
	{
		donor.POST("", controllers.CreateOpportunity)
		donor.PUT("/:id", controllers.UpdateOpportunity)
		donor.DELETE("/:id", controllers.DeleteOpportunity)
	}
}
