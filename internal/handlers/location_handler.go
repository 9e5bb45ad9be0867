package handlers

import (
	"motoride/internal/models"
	"motoride/internal/services"
	"motoride/internal/utils"
	"motoride/pkg/websocket"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	rideService *services.RideService
	hub         *websocket.Hub
}

func NewLocationHandler(rideService *services.RideService, hub *websocket.Hub) *LocationHandler {
	return &LocationHandler{
		rideService: rideService,
		hub:         hub,
	}
}

type PublishLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// PublishLocation ingests one driver position tick. The tick goes to the
// ephemeral channel only, never to the ride document.
func (h *LocationHandler) PublishLocation(c *gin.Context) {
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	var request PublishLocationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	err := h.rideService.PublishLocation(c.Request.Context(), rideID, models.GeoPoint{
		Latitude:  request.Latitude,
		Longitude: request.Longitude,
	})
	if err != nil {
		respondRideError(c, err)
		return
	}

	utils.SuccessResponse(c, "Location published", nil)
}

// StreamLocation upgrades to a websocket delivering location ticks for the
// ride until the client disconnects.
func (h *LocationHandler) StreamLocation(c *gin.Context) {
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	if err := h.hub.ServeRide(c.Writer, c.Request, rideID.Hex()); err != nil {
		utils.BadRequestResponse(c, "WebSocket upgrade failed")
	}
}
