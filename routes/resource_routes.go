package routes

import (
	"yatraseva/internal/handlers"
	"yatraseva/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupResourceRoutes sets up routes for the medical resource directory
func SetupResourceRoutes(r *gin.RouterGroup, resourceHandler *handlers.ResourceHandler, jwtSecret string) {
	resources := r.Group("/resources")
	resources.Use(middleware.AuthRequired(jwtSecret), middleware.RoleRequired("admin", "police", "medical"))
	{
		resources.GET("/", resourceHandler.List)
		resources.GET("/nearby", resourceHandler.Nearby)
		resources.GET("/:id", resourceHandler.Get)

		// heartbeat from the units themselves
		resources.PUT("/:id/location", resourceHandler.UpdateLocation)

		admin := resources.Group("")
		admin.Use(middleware.AdminRequired())
		{
			admin.POST("/", resourceHandler.Create)
			admin.PUT("/:id/status", resourceHandler.UpdateStatus)
		}
	}
}
