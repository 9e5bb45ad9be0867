package interfaces

import (
	"context"

	"motoride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ParticipantRole string

const (
	RolePassenger ParticipantRole = "passenger"
	RoleDriver    ParticipantRole = "driver"
)

// RideRepository is the persistence abstraction for ride documents. Only the
// ride service calls it; in particular the status field is written exclusively
// through UpdateStatusFrom so the state machine invariants hold.
type RideRepository interface {
	// Create assigns the id and persists the initial pending document.
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)

	// GetByStatus and GetByParticipant return results in unspecified order;
	// callers impose their own ordering.
	GetByStatus(ctx context.Context, status models.RideStatus) ([]*models.Ride, error)
	GetByParticipant(ctx context.Context, role ParticipantRole, participantID string) ([]*models.Ride, error)

	// Update applies a partial merge. It rejects writes to the status field.
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// UpdateStatusFrom commits the transition from -> to together with the
	// given field updates, only if the stored status still equals from.
	// Returns false when the compare-and-swap lost.
	UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.RideStatus, updates map[string]interface{}) (bool, error)
}
