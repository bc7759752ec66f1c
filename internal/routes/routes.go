package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()

	// Recovery and request logging middleware
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	AuthRoutes(r)
	UserRoutes(r)
	VerificationRoutes(r)
	OpportunityRoutes(r)
	ApplicationRoutes(r)

	return r
}
