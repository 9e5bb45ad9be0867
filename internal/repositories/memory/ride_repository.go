// Package memory provides the in-process ride store backend. It is used by
// the test suite and as the fallback when no document database is reachable.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"motoride/internal/apperrors"
	"motoride/internal/models"
	"motoride/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type rideRepository struct {
	mu    sync.RWMutex
	rides map[primitive.ObjectID]*models.Ride
}

func NewRideRepository() interfaces.RideRepository {
	return &rideRepository{
		rides: make(map[primitive.ObjectID]*models.Ride),
	}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride.ID = primitive.NewObjectID()
	ride.Status = models.RideStatusPending
	r.rides[ride.ID] = cloneRide(ride)

	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ride, ok := r.rides[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	return cloneRide(ride), nil
}

func (r *rideRepository) GetByStatus(ctx context.Context, status models.RideStatus) ([]*models.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rides []*models.Ride
	for _, ride := range r.rides {
		if ride.Status == status {
			rides = append(rides, cloneRide(ride))
		}
	}

	return rides, nil
}

func (r *rideRepository) GetByParticipant(ctx context.Context, role interfaces.ParticipantRole, participantID string) ([]*models.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rides []*models.Ride
	for _, ride := range r.rides {
		switch role {
		case interfaces.RolePassenger:
			if ride.Passenger.ID == participantID {
				rides = append(rides, cloneRide(ride))
			}
		case interfaces.RoleDriver:
			if ride.Driver != nil && ride.Driver.ID == participantID {
				rides = append(rides, cloneRide(ride))
			}
		default:
			return nil, apperrors.NewValidationError("role", fmt.Sprintf("unknown participant role %q", role))
		}
	}

	return rides, nil
}

func (r *rideRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	if _, ok := updates["status"]; ok {
		return apperrors.NewValidationError("status", "status changes must go through UpdateStatusFrom")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[id]
	if !ok {
		return apperrors.ErrNotFound
	}

	if err := applyUpdates(ride, updates); err != nil {
		return err
	}
	ride.UpdatedAt = time.Now()

	return nil
}

func (r *rideRepository) UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.RideStatus, updates map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[id]
	if !ok {
		return false, nil
	}
	if ride.Status != from {
		return false, nil
	}

	if err := applyUpdates(ride, updates); err != nil {
		return false, err
	}
	ride.Status = to
	ride.UpdatedAt = time.Now()

	return true, nil
}

func applyUpdates(ride *models.Ride, updates map[string]interface{}) error {
	for field, value := range updates {
		switch field {
		case "driver":
			driver, ok := value.(*models.DriverSnapshot)
			if !ok {
				return apperrors.NewValidationError(field, "expected driver snapshot")
			}
			copied := *driver
			ride.Driver = &copied
		case "payment_status":
			status, ok := value.(models.PaymentStatus)
			if !ok {
				return apperrors.NewValidationError(field, "expected payment status")
			}
			ride.PaymentStatus = status
		case "accepted_at":
			ride.AcceptedAt = toTimePtr(value)
		case "started_at":
			ride.StartedAt = toTimePtr(value)
		case "completed_at":
			ride.CompletedAt = toTimePtr(value)
		case "cancelled_at":
			ride.CancelledAt = toTimePtr(value)
		case "cancellation_reason":
			ride.CancellationReason, _ = value.(string)
		case "cancelled_by":
			ride.CancelledBy, _ = value.(string)
		case "route_polyline":
			ride.RoutePolyline, _ = value.(string)
		default:
			return apperrors.NewValidationError(field, "unsupported update field")
		}
	}
	return nil
}

func toTimePtr(value interface{}) *time.Time {
	switch v := value.(type) {
	case time.Time:
		return &v
	case *time.Time:
		return v
	}
	return nil
}

// cloneRide deep-copies a ride so callers never share memory with the store.
func cloneRide(ride *models.Ride) *models.Ride {
	copied := *ride

	if ride.Driver != nil {
		driver := *ride.Driver
		copied.Driver = &driver
	}
	if ride.DeliveryDetails != nil {
		details := *ride.DeliveryDetails
		copied.DeliveryDetails = &details
	}
	if ride.Origin.Coordinates != nil {
		origin := *ride.Origin.Coordinates
		copied.Origin.Coordinates = &origin
	}
	if ride.Destination.Coordinates != nil {
		dest := *ride.Destination.Coordinates
		copied.Destination.Coordinates = &dest
	}
	if ride.Waypoints != nil {
		copied.Waypoints = append([]models.GeoPoint(nil), ride.Waypoints...)
	}
	copied.AcceptedAt = copyTime(ride.AcceptedAt)
	copied.StartedAt = copyTime(ride.StartedAt)
	copied.CompletedAt = copyTime(ride.CompletedAt)
	copied.CancelledAt = copyTime(ride.CancelledAt)

	return &copied
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
