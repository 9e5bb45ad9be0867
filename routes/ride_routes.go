package routes

import (
	"motoride/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRideRoutes sets up routes for the ride lifecycle and dispatch
func SetupRideRoutes(r *gin.RouterGroup, rideHandler *handlers.RideHandler, dispatchHandler *handlers.DispatchHandler, locationHandler *handlers.LocationHandler) {
	rides := r.Group("/rides")
	{
		rides.POST("", rideHandler.CreateRide)
		rides.GET("", rideHandler.ListRides)
		rides.GET("/:id", rideHandler.GetRide)

		// Lifecycle transitions
		rides.POST("/:id/accept", rideHandler.AcceptRide)
		rides.POST("/:id/start", rideHandler.StartRide)
		rides.POST("/:id/complete", rideHandler.CompleteRide)
		rides.POST("/:id/cancel", rideHandler.CancelRide)

		// External payment collaborator callback
		rides.POST("/:id/payment-confirmed", rideHandler.ConfirmPayment)

		// Ephemeral driver position
		rides.POST("/:id/location", locationHandler.PublishLocation)
	}

	dispatch := r.Group("/dispatch")
	{
		dispatch.GET("/nearby", dispatchHandler.NearbyRides)
	}
}
