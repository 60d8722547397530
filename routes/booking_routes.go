package routes

import (
	"yatraseva/internal/handlers"
	"yatraseva/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes sets up routes for darshan slot booking
func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, slotHandler *handlers.SlotHandler, jwtSecret string) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret))
	{
		bookings.POST("/", bookingHandler.Create)
		bookings.GET("/", bookingHandler.ListMine)
		bookings.GET("/:id", bookingHandler.Get)
		// ownership is enforced in the handler; admins may cancel any booking
		bookings.DELETE("/:id", bookingHandler.Cancel)
	}

	slots := r.Group("/slots")
	slots.Use(middleware.AuthRequired(jwtSecret))
	{
		slots.GET("/", slotHandler.List)
		slots.GET("/availability", slotHandler.Availability)
		slots.GET("/:id", slotHandler.Get)

		admin := slots.Group("")
		admin.Use(middleware.AdminRequired())
		{
			admin.POST("/", slotHandler.Create)
			admin.PUT("/:id/lock", slotHandler.Lock)
			admin.PUT("/:id/unlock", slotHandler.Unlock)
		}
	}
}
