package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"motoride/internal/apperrors"
	"motoride/internal/config"
	"motoride/internal/models"
)

func testPricingService() *PricingService {
	return NewPricingService(NewStaticSettingsProvider(&config.PricingConfig{
		BasePrice:              5.00,
		PricePerKm:             2.00,
		BikeBasePrice:          4.00,
		BikePricePerKm:         1.50,
		BikeMaxDistanceKM:      8.0,
		DeliveryMotoBasePrice:  6.00,
		DeliveryMotoPricePerKm: 2.20,
	}))
}

func TestPriceByServiceType(t *testing.T) {
	ctx := context.Background()
	svc := testPricingService()

	cases := []struct {
		name        string
		serviceType models.ServiceType
		distanceKM  float64
		want        float64
	}{
		{"moto taxi 10km", models.ServiceTypeMotoTaxi, 10, 25.00},
		{"moto taxi zero distance", models.ServiceTypeMotoTaxi, 0, 5.00},
		{"moto delivery", models.ServiceTypeMotoDelivery, 5, 17.00},
		{"bike delivery", models.ServiceTypeBikeDelivery, 4, 10.00},
		{"rounding half up", models.ServiceTypeMotoTaxi, 1.2345, 7.47},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Price(ctx, tc.serviceType, tc.distanceKM)
			if err != nil {
				t.Fatalf("price: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("price = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestPriceIsDeterministic(t *testing.T) {
	ctx := context.Background()
	svc := testPricingService()

	first, err := svc.Price(ctx, models.ServiceTypeMotoTaxi, 12.7)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := svc.Price(ctx, models.ServiceTypeMotoTaxi, 12.7)
		if err != nil {
			t.Fatalf("price: %v", err)
		}
		if again != first {
			t.Fatalf("price changed between calls: %f vs %f", again, first)
		}
	}
}

func TestPriceRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := testPricingService()

	if _, err := svc.Price(ctx, "rickshaw", 5); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error for unknown service type, got %v", err)
	}
	if _, err := svc.Price(ctx, models.ServiceTypeMotoTaxi, -1); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error for negative distance, got %v", err)
	}
	if _, err := svc.Price(ctx, models.ServiceTypeMotoTaxi, math.NaN()); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error for NaN distance, got %v", err)
	}
	if _, err := svc.Price(ctx, models.ServiceTypeBikeDelivery, 9); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error beyond bike max distance, got %v", err)
	}
}
