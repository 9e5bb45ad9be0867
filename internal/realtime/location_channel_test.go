package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"motoride/internal/models"
)

func tick(rideID string, lat, lng float64) models.LocationUpdate {
	return models.LocationUpdate{
		RideID:     rideID,
		Latitude:   lat,
		Longitude:  lng,
		RecordedAt: time.Now(),
	}
}

func TestLocalChannelPublishSubscribe(t *testing.T) {
	ctx := context.Background()
	channel := NewLocalChannel()

	var mu sync.Mutex
	var received []models.LocationUpdate
	unsubscribe := channel.Subscribe("ride-1", func(update models.LocationUpdate) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, update)
	})
	defer unsubscribe()

	channel.Publish(ctx, tick("ride-1", -23.55, -46.63))
	channel.Publish(ctx, tick("ride-1", -23.56, -46.64))
	channel.Publish(ctx, tick("ride-2", -22.90, -43.17))

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Fatalf("expected 2 updates for ride-1, got %d", len(received))
	}
	if received[1].Latitude != -23.56 {
		t.Fatalf("updates delivered out of order: %+v", received)
	}
}

func TestLocalChannelIndependentSubscribers(t *testing.T) {
	ctx := context.Background()
	channel := NewLocalChannel()

	counts := make([]int, 2)
	var mu sync.Mutex
	for i := range counts {
		i := i
		unsubscribe := channel.Subscribe("ride-1", func(models.LocationUpdate) {
			mu.Lock()
			defer mu.Unlock()
			counts[i]++
		})
		defer unsubscribe()
	}

	channel.Publish(ctx, tick("ride-1", -23.55, -46.63))

	mu.Lock()
	defer mu.Unlock()
	if counts[0] != 1 || counts[1] != 1 {
		t.Fatalf("every subscriber must see the update, got %v", counts)
	}
}

func TestLocalChannelUnsubscribe(t *testing.T) {
	ctx := context.Background()
	channel := NewLocalChannel()

	var mu sync.Mutex
	count := 0
	unsubscribe := channel.Subscribe("ride-1", func(models.LocationUpdate) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})

	channel.Publish(ctx, tick("ride-1", -23.55, -46.63))
	unsubscribe()
	channel.Publish(ctx, tick("ride-1", -23.56, -46.64))

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Fatalf("expected no delivery after unsubscribe, got %d", count)
	}
}

func TestLocalChannelLatest(t *testing.T) {
	ctx := context.Background()
	channel := NewLocalChannel()

	if _, ok := channel.Latest(ctx, "ride-1"); ok {
		t.Fatal("expected no latest position before any publish")
	}

	channel.Publish(ctx, tick("ride-1", -23.55, -46.63))
	channel.Publish(ctx, tick("ride-1", -23.56, -46.64))

	latest, ok := channel.Latest(ctx, "ride-1")
	if !ok {
		t.Fatal("expected a latest position")
	}
	if latest.Latitude != -23.56 || latest.Longitude != -46.64 {
		t.Fatalf("expected the most recent tick, got %+v", latest)
	}
}

func TestLocalChannelDiscard(t *testing.T) {
	ctx := context.Background()
	channel := NewLocalChannel()

	var mu sync.Mutex
	count := 0
	unsubscribe := channel.Subscribe("ride-1", func(models.LocationUpdate) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})
	defer unsubscribe()

	channel.Publish(ctx, tick("ride-1", -23.55, -46.63))
	channel.Discard(ctx, "ride-1")

	if _, ok := channel.Latest(ctx, "ride-1"); ok {
		t.Fatal("expected latest position dropped on discard")
	}

	// publishes after discard are silently swallowed
	channel.Publish(ctx, tick("ride-1", -23.56, -46.64))

	mu.Lock()
	if count != 1 {
		t.Fatalf("expected no delivery after discard, got %d", count)
	}
	mu.Unlock()

	if _, ok := channel.Latest(ctx, "ride-1"); ok {
		t.Fatal("discarded ride must not accumulate positions again")
	}
}

func TestDiscardReleasesSubscribers(t *testing.T) {
	ctx := context.Background()
	channel := NewLocalChannel()

	unsubscribe := channel.Subscribe("ride-1", func(models.LocationUpdate) {})
	channel.Discard(ctx, "ride-1")

	channel.mu.RLock()
	_, held := channel.subs["ride-1"]
	channel.mu.RUnlock()
	if held {
		t.Fatal("discard must release subscriber bookkeeping")
	}

	// unsubscribing after discard is a harmless no-op
	unsubscribe()
}
