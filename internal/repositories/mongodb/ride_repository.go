package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motoride/internal/apperrors"
	"motoride/internal/models"
	"motoride/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Cache is the slice of the Redis wrapper the repository uses to keep active
// rides hot. A nil cache disables caching entirely.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

const activeRideCacheTTL = 10 * time.Minute

type rideRepository struct {
	collection *mongo.Collection
	cache      Cache
}

func NewRideRepository(db *mongo.Database, cache Cache) interfaces.RideRepository {
	return &rideRepository{
		collection: db.Collection("rides"),
		cache:      cache,
	}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = primitive.NewObjectID()
	ride.Status = models.RideStatusPending

	_, err := r.collection.InsertOne(ctx, ride)
	if err != nil {
		return apperrors.NewTransientError("create ride", err)
	}

	// Keep pending rides hot for the dispatch poll
	r.cacheRide(ctx, ride)

	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	if ride := r.getRideFromCache(ctx, id.Hex()); ride != nil {
		return ride, nil
	}

	var ride models.Ride
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewTransientError("get ride", err)
	}

	if !ride.Status.IsTerminal() {
		r.cacheRide(ctx, &ride)
	}

	return &ride, nil
}

func (r *rideRepository) GetByStatus(ctx context.Context, status models.RideStatus) ([]*models.Ride, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, apperrors.NewTransientError("query rides by status", err)
	}
	defer cursor.Close(ctx)

	var rides []*models.Ride
	if err := cursor.All(ctx, &rides); err != nil {
		return nil, apperrors.NewTransientError("decode rides", err)
	}

	return rides, nil
}

func (r *rideRepository) GetByParticipant(ctx context.Context, role interfaces.ParticipantRole, participantID string) ([]*models.Ride, error) {
	var filter bson.M
	switch role {
	case interfaces.RolePassenger:
		filter = bson.M{"passenger.id": participantID}
	case interfaces.RoleDriver:
		filter = bson.M{"driver.id": participantID}
	default:
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("unknown participant role %q", role))
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.NewTransientError("query rides by participant", err)
	}
	defer cursor.Close(ctx)

	var rides []*models.Ride
	if err := cursor.All(ctx, &rides); err != nil {
		return nil, apperrors.NewTransientError("decode rides", err)
	}

	return rides, nil
}

func (r *rideRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	if _, ok := updates["status"]; ok {
		return apperrors.NewValidationError("status", "status changes must go through UpdateStatusFrom")
	}

	set := bson.M{"updated_at": time.Now()}
	for k, v := range updates {
		set[k] = v
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
	)
	if err != nil {
		return apperrors.NewTransientError("update ride", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}

	r.invalidateRideCache(ctx, id.Hex())

	return nil
}

func (r *rideRepository) UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.RideStatus, updates map[string]interface{}) (bool, error) {
	set := bson.M{"status": to, "updated_at": time.Now()}
	for k, v := range updates {
		set[k] = v
	}

	// The status guard in the filter makes the transition a compare-and-swap:
	// a concurrent transition that committed first leaves MatchedCount at 0.
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, apperrors.NewTransientError("update ride status", err)
	}

	r.invalidateRideCache(ctx, id.Hex())

	return result.MatchedCount == 1, nil
}

func (r *rideRepository) cacheRide(ctx context.Context, ride *models.Ride) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Set(ctx, rideCacheKey(ride.ID.Hex()), ride, activeRideCacheTTL)
}

func (r *rideRepository) getRideFromCache(ctx context.Context, id string) *models.Ride {
	if r.cache == nil {
		return nil
	}
	var ride models.Ride
	if err := r.cache.Get(ctx, rideCacheKey(id), &ride); err != nil {
		return nil
	}
	return &ride
}

func (r *rideRepository) invalidateRideCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, rideCacheKey(id))
}

func rideCacheKey(id string) string {
	return "ride:" + id
}
