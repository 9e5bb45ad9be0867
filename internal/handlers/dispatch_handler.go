package handlers

import (
	"strconv"

	"motoride/internal/models"
	"motoride/internal/services"
	"motoride/internal/utils"

	"github.com/gin-gonic/gin"
)

type DispatchHandler struct {
	dispatchService *services.DispatchService
}

func NewDispatchHandler(dispatchService *services.DispatchService) *DispatchHandler {
	return &DispatchHandler{
		dispatchService: dispatchService,
	}
}

// NearbyRides returns pending ride requests around the driver, most recent
// first. Drivers poll this endpoint.
func (h *DispatchHandler) NearbyRides(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid latitude")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid longitude")
		return
	}

	radiusKM := 0.0
	if raw := c.Query("radius_km"); raw != "" {
		radiusKM, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid radius")
			return
		}
	}

	rides, err := h.dispatchService.FindNearbyPending(c.Request.Context(), models.GeoPoint{
		Latitude:  lat,
		Longitude: lng,
	}, radiusKM)
	if err != nil {
		respondRideError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Nearby rides found", rides, &utils.Meta{Count: len(rides)})
}
