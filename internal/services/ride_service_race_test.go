package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"motoride/internal/apperrors"
	"motoride/internal/models"
)

func TestConcurrentAcceptExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestRideService(t, nil)

	ride, err := svc.Create(ctx, motoTaxiInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const drivers = 8
	results := make([]error, drivers)

	var start sync.WaitGroup
	var done sync.WaitGroup
	start.Add(1)
	for i := 0; i < drivers; i++ {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			driver := testDriver()
			driver.ID = fmt.Sprintf("d%d", i)
			start.Wait()
			_, results[i] = svc.Accept(ctx, ride.ID, driver)
		}(i)
	}
	start.Done()
	done.Wait()

	winners := 0
	winnerID := ""
	for i, err := range results {
		if err == nil {
			winners++
			winnerID = fmt.Sprintf("d%d", i)
			continue
		}
		if !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Fatalf("loser %d got unexpected error: %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning accept, got %d", winners)
	}

	final, err := svc.Get(ctx, ride.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if final.Status != models.RideStatusAccepted {
		t.Fatalf("expected accepted status, got %s", final.Status)
	}
	if final.Driver == nil || final.Driver.ID != winnerID {
		t.Fatalf("stored driver does not match the winner %s: %+v", winnerID, final.Driver)
	}
}
