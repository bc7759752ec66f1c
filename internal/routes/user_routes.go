package routes

import (
	"fursa_connect/internal/controllers"
	"fursa_connect/internal/middleware"

	"github.com/gin-gonic/gin"
)

func UserRoutes(r *gin.Engine) {
	user := r.Group("/user")
	user.Use(middleware.RequireAuth())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
		user.GET("/documents", controllers.GetMyDocuments)
		user.GET("/verification", controllers.GetMyVerification)
	}
}
