// Package realtime carries the ephemeral driver-position stream. Location
// ticks are high-frequency and deliberately never touch the durable ride
// document; losing a tick is tolerable, so publishing is fire-and-forget.
package realtime

import (
	"context"
	"sync"

	"motoride/internal/models"
)

type Handler func(update models.LocationUpdate)

// Channel propagates the latest driver position for a ride to its active
// subscribers. A channel is meaningful only while the ride is accepted or
// in progress; the ride service discards it on terminal transitions.
type Channel interface {
	Publish(ctx context.Context, update models.LocationUpdate)
	Subscribe(rideID string, fn Handler) (unsubscribe func())
	Latest(ctx context.Context, rideID string) (models.LocationUpdate, bool)
	Discard(ctx context.Context, rideID string)
}

// LocalChannel is the in-process fan-out used in tests and when Redis is not
// configured.
type LocalChannel struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
	latest map[string]models.LocationUpdate
	closed map[string]bool
}

func NewLocalChannel() *LocalChannel {
	return &LocalChannel{
		subs:   make(map[string]map[int]Handler),
		latest: make(map[string]models.LocationUpdate),
		closed: make(map[string]bool),
	}
}

func (c *LocalChannel) Publish(ctx context.Context, update models.LocationUpdate) {
	c.mu.Lock()
	if c.closed[update.RideID] {
		c.mu.Unlock()
		return
	}
	c.latest[update.RideID] = update
	handlers := make([]Handler, 0, len(c.subs[update.RideID]))
	for _, fn := range c.subs[update.RideID] {
		handlers = append(handlers, fn)
	}
	c.mu.Unlock()

	for _, fn := range handlers {
		fn(update)
	}
}

func (c *LocalChannel) Subscribe(rideID string, fn Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subs[rideID] == nil {
		c.subs[rideID] = make(map[int]Handler)
	}
	id := c.nextID
	c.nextID++
	c.subs[rideID][id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs[rideID], id)
		if len(c.subs[rideID]) == 0 {
			delete(c.subs, rideID)
		}
	}
}

func (c *LocalChannel) Latest(ctx context.Context, rideID string) (models.LocationUpdate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	update, ok := c.latest[rideID]
	return update, ok
}

// Discard drops the stored position and stops accepting publishes for the
// ride. Subscriber bookkeeping is released too; existing subscribers simply
// stop receiving updates.
func (c *LocalChannel) Discard(ctx context.Context, rideID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.latest, rideID)
	delete(c.subs, rideID)
	c.closed[rideID] = true
}
