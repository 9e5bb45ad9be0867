package services

import (
	"context"
	"time"

	"motoride/internal/apperrors"
	"motoride/internal/models"
	"motoride/internal/notifier"
	"motoride/internal/realtime"
	"motoride/internal/repositories/interfaces"
	"motoride/internal/utils"
	"motoride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RideService is the lifecycle engine. Every status mutation goes through it,
// and every transition commits via the store's compare-and-swap so only one
// transition per ride can win a race.
type RideService struct {
	repo     interfaces.RideRepository
	pricing  *PricingService
	billing  *BillingService
	channel  realtime.Channel
	notifier notifier.Notifier
	log      *logger.Logger
}

func NewRideService(
	repo interfaces.RideRepository,
	pricing *PricingService,
	billing *BillingService,
	channel realtime.Channel,
	events notifier.Notifier,
	log *logger.Logger,
) *RideService {
	return &RideService{
		repo:     repo,
		pricing:  pricing,
		billing:  billing,
		channel:  channel,
		notifier: events,
		log:      log,
	}
}

type CreateRideInput struct {
	Passenger       models.PassengerSnapshot
	Origin          models.Location
	Destination     models.Location
	Waypoints       []models.GeoPoint
	RoutePolyline   string
	ServiceType     models.ServiceType
	DistanceKM      float64
	DistanceText    string
	DurationText    string
	PaymentMethod   models.PaymentMethod
	CompanyID       string
	DeliveryDetails *models.DeliveryDetails
	SecurityMode    bool
}

// Create prices the request, gates corporate bookings, persists the pending
// ride and emits the requested event. The price is computed exactly once
// here and is immutable afterwards.
func (s *RideService) Create(ctx context.Context, input CreateRideInput) (*models.Ride, error) {
	if input.Passenger.ID == "" {
		return nil, apperrors.NewValidationError("passenger", "passenger snapshot is required")
	}
	if input.Origin.Address == "" {
		return nil, apperrors.NewValidationError("origin", "origin address is required")
	}
	if input.Destination.Address == "" {
		return nil, apperrors.NewValidationError("destination", "destination address is required")
	}
	if !input.ServiceType.IsValid() {
		return nil, apperrors.NewValidationError("service_type", "unknown service type")
	}

	price, err := s.pricing.Price(ctx, input.ServiceType, input.DistanceKM)
	if err != nil {
		return nil, err
	}

	paymentStatus := models.PaymentStatusPending
	if input.PaymentMethod == models.PaymentMethodCorporate {
		if input.CompanyID == "" {
			return nil, apperrors.NewValidationError("company_id", "corporate rides require a company")
		}
		if err := s.billing.AuthorizeBooking(ctx, input.CompanyID, price); err != nil {
			return nil, err
		}
		paymentStatus = models.PaymentStatusPendingInvoice
	}

	now := time.Now()
	ride := &models.Ride{
		Passenger:       input.Passenger,
		Origin:          input.Origin,
		Destination:     input.Destination,
		Waypoints:       input.Waypoints,
		RoutePolyline:   input.RoutePolyline,
		ServiceType:     input.ServiceType,
		Price:           price,
		DistanceText:    input.DistanceText,
		DurationText:    input.DurationText,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   paymentStatus,
		Status:          models.RideStatusPending,
		DeliveryDetails: input.DeliveryDetails,
		CompanyID:       input.CompanyID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.SecurityMode {
		ride.SecurityCode = utils.GenerateSecurityCode()
	}

	if err := s.repo.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.log.LogRideEvent(ride.ID.Hex(), notifier.EventRideRequested, map[string]interface{}{
		"service_type": ride.ServiceType,
		"price":        ride.Price,
	})
	s.notifier.Trigger(notifier.EventRideRequested, ridePayload(ride))

	return ride, nil
}

func (s *RideService) Get(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error) {
	return s.repo.GetByID(ctx, rideID)
}

func (s *RideService) ListByStatus(ctx context.Context, status models.RideStatus) ([]*models.Ride, error) {
	return s.repo.GetByStatus(ctx, status)
}

func (s *RideService) ListByParticipant(ctx context.Context, role interfaces.ParticipantRole, participantID string) ([]*models.Ride, error) {
	return s.repo.GetByParticipant(ctx, role, participantID)
}

// Accept attaches the driver snapshot and moves pending -> accepted. Exactly
// one of two concurrent accepts wins; the loser gets an
// InvalidTransitionError and must refresh rather than retry.
func (s *RideService) Accept(ctx context.Context, rideID primitive.ObjectID, driver models.DriverSnapshot) (*models.Ride, error) {
	if driver.ID == "" {
		return nil, apperrors.NewValidationError("driver", "driver snapshot is required")
	}

	ride, err := s.repo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(ride.Status, models.RideStatusAccepted) {
		return nil, apperrors.NewInvalidTransitionError("accept", string(ride.Status))
	}

	now := time.Now()
	ok, err := s.repo.UpdateStatusFrom(ctx, rideID, models.RideStatusPending, models.RideStatusAccepted, map[string]interface{}{
		"driver":      &driver,
		"accepted_at": now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewInvalidTransitionError("accept", s.currentStatus(ctx, rideID))
	}

	ride.Status = models.RideStatusAccepted
	ride.Driver = &driver
	ride.AcceptedAt = &now
	ride.UpdatedAt = now

	s.log.LogRideEvent(rideID.Hex(), notifier.EventRideAccepted, map[string]interface{}{
		"driver_id": driver.ID,
	})
	s.notifier.Trigger(notifier.EventRideAccepted, ridePayload(ride))

	return ride, nil
}

// Start moves accepted -> in_progress.
func (s *RideService) Start(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.repo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(ride.Status, models.RideStatusInProgress) {
		return nil, apperrors.NewInvalidTransitionError("start", string(ride.Status))
	}

	now := time.Now()
	ok, err := s.repo.UpdateStatusFrom(ctx, rideID, models.RideStatusAccepted, models.RideStatusInProgress, map[string]interface{}{
		"started_at": now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewInvalidTransitionError("start", s.currentStatus(ctx, rideID))
	}

	ride.Status = models.RideStatusInProgress
	ride.StartedAt = &now
	ride.UpdatedAt = now

	return ride, nil
}

// Complete moves in_progress -> completed and discards the ephemeral
// location. Payment status is not touched: confirmation arrives separately
// through MarkPaid.
func (s *RideService) Complete(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.repo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(ride.Status, models.RideStatusCompleted) {
		return nil, apperrors.NewInvalidTransitionError("complete", string(ride.Status))
	}

	now := time.Now()
	ok, err := s.repo.UpdateStatusFrom(ctx, rideID, models.RideStatusInProgress, models.RideStatusCompleted, map[string]interface{}{
		"completed_at": now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewInvalidTransitionError("complete", s.currentStatus(ctx, rideID))
	}

	ride.Status = models.RideStatusCompleted
	ride.CompletedAt = &now
	ride.UpdatedAt = now

	s.channel.Discard(ctx, rideID.Hex())

	s.log.LogRideEvent(rideID.Hex(), notifier.EventRideCompleted, map[string]interface{}{
		"payment_method": ride.PaymentMethod,
	})
	s.notifier.Trigger(notifier.EventRideCompleted, ridePayload(ride))

	return ride, nil
}

// Cancel is legal from any non-terminal state.
func (s *RideService) Cancel(ctx context.Context, rideID primitive.ObjectID, reason, cancelledBy string) (*models.Ride, error) {
	ride, err := s.repo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(ride.Status, models.RideStatusCancelled) {
		return nil, apperrors.NewInvalidTransitionError("cancel", string(ride.Status))
	}

	now := time.Now()
	ok, err := s.repo.UpdateStatusFrom(ctx, rideID, ride.Status, models.RideStatusCancelled, map[string]interface{}{
		"cancelled_at":        now,
		"cancellation_reason": reason,
		"cancelled_by":        cancelledBy,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewInvalidTransitionError("cancel", s.currentStatus(ctx, rideID))
	}

	ride.Status = models.RideStatusCancelled
	ride.CancelledAt = &now
	ride.CancellationReason = reason
	ride.CancelledBy = cancelledBy
	ride.UpdatedAt = now

	s.channel.Discard(ctx, rideID.Hex())

	s.log.LogRideEvent(rideID.Hex(), notifier.EventRideCancelled, map[string]interface{}{
		"reason":       reason,
		"cancelled_by": cancelledBy,
	})
	s.notifier.Trigger(notifier.EventRideCancelled, ridePayload(ride))

	return ride, nil
}

// MarkPaid records the external payment confirmation. Payment status only
// ever moves to completed, so repeated confirmations are no-ops.
func (s *RideService) MarkPaid(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.repo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.PaymentStatus == models.PaymentStatusCompleted {
		return ride, nil
	}

	err = s.repo.Update(ctx, rideID, map[string]interface{}{
		"payment_status": models.PaymentStatusCompleted,
	})
	if err != nil {
		return nil, err
	}

	ride.PaymentStatus = models.PaymentStatusCompleted

	s.log.LogRideEvent(rideID.Hex(), "payment_confirmed", map[string]interface{}{
		"payment_method": ride.PaymentMethod,
	})

	return ride, nil
}

// PublishLocation forwards a driver position tick to the ephemeral channel.
// Ticks are accepted only while the ride is accepted or in progress.
func (s *RideService) PublishLocation(ctx context.Context, rideID primitive.ObjectID, point models.GeoPoint) error {
	ride, err := s.repo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.Status != models.RideStatusAccepted && ride.Status != models.RideStatusInProgress {
		return apperrors.NewInvalidTransitionError("publish location for", string(ride.Status))
	}

	s.channel.Publish(ctx, models.LocationUpdate{
		RideID:     rideID.Hex(),
		Latitude:   point.Latitude,
		Longitude:  point.Longitude,
		RecordedAt: time.Now(),
	})

	return nil
}

func (s *RideService) currentStatus(ctx context.Context, rideID primitive.ObjectID) string {
	ride, err := s.repo.GetByID(ctx, rideID)
	if err != nil {
		return "unknown"
	}
	return string(ride.Status)
}

func ridePayload(ride *models.Ride) map[string]interface{} {
	payload := map[string]interface{}{
		"ride_id":        ride.ID.Hex(),
		"status":         ride.Status,
		"service_type":   ride.ServiceType,
		"passenger_id":   ride.Passenger.ID,
		"price":          ride.Price,
		"payment_method": ride.PaymentMethod,
		"payment_status": ride.PaymentStatus,
		"created_at":     ride.CreatedAt,
	}
	if ride.Driver != nil {
		payload["driver_id"] = ride.Driver.ID
	}
	if ride.CompanyID != "" {
		payload["company_id"] = ride.CompanyID
	}
	if ride.SecurityCode != "" {
		payload["security_code"] = ride.SecurityCode
	}
	return payload
}
