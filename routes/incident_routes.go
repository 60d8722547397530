package routes

import (
	"yatraseva/internal/handlers"
	"yatraseva/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupIncidentRoutes sets up routes for incident reporting and dispatch
func SetupIncidentRoutes(r *gin.RouterGroup, incidentHandler *handlers.IncidentHandler, jwtSecret string) {
	incidents := r.Group("/incidents")
	incidents.Use(middleware.AuthRequired(jwtSecret))
	{
		// Any authenticated user may report and follow their incident
		incidents.POST("/", incidentHandler.Report)
		incidents.GET("/:id", incidentHandler.Get)

		// Operational views and dispatch are responder-only
		responders := incidents.Group("")
		responders.Use(middleware.RoleRequired("admin", "police", "medical"))
		{
			responders.GET("/", incidentHandler.List)
			responders.GET("/active", incidentHandler.GetActive)
			responders.GET("/:id/candidates", incidentHandler.Prioritize)
			responders.POST("/:id/dispatch", incidentHandler.Dispatch)
			responders.PUT("/:id/status", incidentHandler.UpdateStatus)
		}
	}
}
