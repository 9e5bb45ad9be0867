package handlers

import (
	"errors"
	"net/http"

	"motoride/internal/apperrors"
	"motoride/internal/models"
	"motoride/internal/repositories/interfaces"
	"motoride/internal/services"
	"motoride/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideHandler struct {
	rideService *services.RideService
}

func NewRideHandler(rideService *services.RideService) *RideHandler {
	return &RideHandler{
		rideService: rideService,
	}
}

type CreateRideRequest struct {
	Passenger       models.PassengerSnapshot `json:"passenger" binding:"required"`
	Origin          models.Location          `json:"origin" binding:"required"`
	Destination     models.Location          `json:"destination" binding:"required"`
	Waypoints       []models.GeoPoint        `json:"waypoints"`
	RoutePolyline   string                   `json:"route_polyline"`
	ServiceType     models.ServiceType       `json:"service_type" binding:"required"`
	DistanceKM      float64                  `json:"distance_km"`
	DistanceText    string                   `json:"distance_text"`
	DurationText    string                   `json:"duration_text"`
	PaymentMethod   models.PaymentMethod     `json:"payment_method" binding:"required"`
	CompanyID       string                   `json:"company_id"`
	DeliveryDetails *models.DeliveryDetails  `json:"delivery_details"`
	SecurityMode    bool                     `json:"security_mode"`
}

// CreateRide creates a pending ride request
func (h *RideHandler) CreateRide(c *gin.Context) {
	var request CreateRideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	ride, err := h.rideService.Create(c.Request.Context(), services.CreateRideInput{
		Passenger:       request.Passenger,
		Origin:          request.Origin,
		Destination:     request.Destination,
		Waypoints:       request.Waypoints,
		RoutePolyline:   request.RoutePolyline,
		ServiceType:     request.ServiceType,
		DistanceKM:      request.DistanceKM,
		DistanceText:    request.DistanceText,
		DurationText:    request.DurationText,
		PaymentMethod:   request.PaymentMethod,
		CompanyID:       request.CompanyID,
		DeliveryDetails: request.DeliveryDetails,
		SecurityMode:    request.SecurityMode,
	})
	if err != nil {
		respondRideError(c, err)
		return
	}

	utils.CreatedResponse(c, "Ride requested", ride)
}

// GetRide returns one ride by id
func (h *RideHandler) GetRide(c *gin.Context) {
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	ride, err := h.rideService.Get(c.Request.Context(), rideID)
	if err != nil {
		respondRideError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride found", ride)
}

// ListRides filters by status or by participant
func (h *RideHandler) ListRides(c *gin.Context) {
	ctx := c.Request.Context()

	if passengerID := c.Query("passenger_id"); passengerID != "" {
		rides, err := h.rideService.ListByParticipant(ctx, interfaces.RolePassenger, passengerID)
		if err != nil {
			respondRideError(c, err)
			return
		}
		utils.SuccessResponseWithMeta(c, "Rides found", rides, &utils.Meta{Count: len(rides)})
		return
	}

	if driverID := c.Query("driver_id"); driverID != "" {
		rides, err := h.rideService.ListByParticipant(ctx, interfaces.RoleDriver, driverID)
		if err != nil {
			respondRideError(c, err)
			return
		}
		utils.SuccessResponseWithMeta(c, "Rides found", rides, &utils.Meta{Count: len(rides)})
		return
	}

	status := models.RideStatus(c.DefaultQuery("status", string(models.RideStatusPending)))
	rides, err := h.rideService.ListByStatus(ctx, status)
	if err != nil {
		respondRideError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Rides found", rides, &utils.Meta{Count: len(rides)})
}

type AcceptRideRequest struct {
	Driver models.DriverSnapshot `json:"driver" binding:"required"`
}

// AcceptRide attaches a driver to a pending ride
func (h *RideHandler) AcceptRide(c *gin.Context) {
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	var request AcceptRideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	ride, err := h.rideService.Accept(c.Request.Context(), rideID, request.Driver)
	if err != nil {
		respondRideError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride accepted", ride)
}

// StartRide begins an accepted ride
func (h *RideHandler) StartRide(c *gin.Context) {
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	ride, err := h.rideService.Start(c.Request.Context(), rideID)
	if err != nil {
		respondRideError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride started", ride)
}

// CompleteRide finishes a ride in progress
func (h *RideHandler) CompleteRide(c *gin.Context) {
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	ride, err := h.rideService.Complete(c.Request.Context(), rideID)
	if err != nil {
		respondRideError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride completed", ride)
}

type CancelRideRequest struct {
	Reason      string `json:"reason" binding:"required,max=255"`
	CancelledBy string `json:"cancelled_by" binding:"required,oneof=passenger driver admin"`
}

// CancelRide cancels any non-terminal ride
func (h *RideHandler) CancelRide(c *gin.Context) {
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	var request CancelRideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	ride, err := h.rideService.Cancel(c.Request.Context(), rideID, request.Reason, request.CancelledBy)
	if err != nil {
		respondRideError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride cancelled", ride)
}

// ConfirmPayment is called by the external payment collaborator once it has
// independently confirmed payment
func (h *RideHandler) ConfirmPayment(c *gin.Context) {
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	ride, err := h.rideService.MarkPaid(c.Request.Context(), rideID)
	if err != nil {
		respondRideError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment confirmed", ride)
}

func rideIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	rideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ride ID")
		return primitive.NilObjectID, false
	}
	return rideID, true
}

func respondRideError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		utils.NotFoundResponse(c, "Ride not found")
	case errors.Is(err, apperrors.ErrValidation):
		utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, apperrors.ErrInvalidTransition):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, apperrors.ErrTransient):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Temporary storage failure, try again")
	default:
		utils.InternalServerErrorResponse(c)
	}
}
