package realtime

import (
	"context"
	"encoding/json"
	"time"

	"motoride/internal/models"
	"motoride/pkg/cache"
	"motoride/pkg/logger"
)

const (
	locationChannelPrefix = "ride:location:"
	latestKeyPrefix       = "ride:location:latest:"

	// Stale positions are useless; let Redis expire them.
	latestTTL = 2 * time.Minute
)

// RedisChannel propagates location ticks through Redis pub/sub so every
// process sees them, and keeps the latest position in a volatile key for
// late subscribers.
type RedisChannel struct {
	cache *cache.RedisCache
	log   *logger.Logger
}

func NewRedisChannel(redisCache *cache.RedisCache, log *logger.Logger) *RedisChannel {
	return &RedisChannel{
		cache: redisCache,
		log:   log,
	}
}

func (c *RedisChannel) Publish(ctx context.Context, update models.LocationUpdate) {
	if update.RecordedAt.IsZero() {
		update.RecordedAt = time.Now()
	}

	if err := c.cache.Publish(ctx, locationChannelPrefix+update.RideID, update); err != nil {
		c.log.WithRideID(update.RideID).WithError(err).Warn("Failed to publish location update")
	}
	if err := c.cache.Set(ctx, latestKeyPrefix+update.RideID, update, latestTTL); err != nil {
		c.log.WithRideID(update.RideID).WithError(err).Warn("Failed to store latest location")
	}
}

func (c *RedisChannel) Subscribe(rideID string, fn Handler) func() {
	pubsub := c.cache.Subscribe(context.Background(), locationChannelPrefix+rideID)

	go func() {
		for msg := range pubsub.Channel() {
			var update models.LocationUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				c.log.WithRideID(rideID).WithError(err).Warn("Dropped malformed location update")
				continue
			}
			fn(update)
		}
	}()

	return func() {
		_ = pubsub.Close()
	}
}

func (c *RedisChannel) Latest(ctx context.Context, rideID string) (models.LocationUpdate, bool) {
	var update models.LocationUpdate
	if err := c.cache.Get(ctx, latestKeyPrefix+rideID, &update); err != nil {
		return models.LocationUpdate{}, false
	}
	return update, true
}

func (c *RedisChannel) Discard(ctx context.Context, rideID string) {
	if err := c.cache.Delete(ctx, latestKeyPrefix+rideID); err != nil {
		c.log.WithRideID(rideID).WithError(err).Warn("Failed to discard ride location")
	}
}
