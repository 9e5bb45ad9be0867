package services

import (
	"context"
	"fmt"
	"math"

	"motoride/internal/apperrors"
	"motoride/internal/config"
	"motoride/internal/models"
	"motoride/internal/utils"
)

// PricingSettings is the tariff table read at price-computation time. The
// provider may refresh it between calls; the calculator never caches it.
type PricingSettings struct {
	BasePrice              float64
	PricePerKm             float64
	BikeBasePrice          float64
	BikePricePerKm         float64
	BikeMaxDistanceKM      float64
	DeliveryMotoBasePrice  float64
	DeliveryMotoPricePerKm float64
}

type SettingsProvider interface {
	GetSettings(ctx context.Context) (*PricingSettings, error)
}

// StaticSettingsProvider serves the tariffs from the loaded configuration.
type StaticSettingsProvider struct {
	cfg *config.PricingConfig
}

func NewStaticSettingsProvider(cfg *config.PricingConfig) *StaticSettingsProvider {
	return &StaticSettingsProvider{cfg: cfg}
}

func (p *StaticSettingsProvider) GetSettings(ctx context.Context) (*PricingSettings, error) {
	return &PricingSettings{
		BasePrice:              p.cfg.BasePrice,
		PricePerKm:             p.cfg.PricePerKm,
		BikeBasePrice:          p.cfg.BikeBasePrice,
		BikePricePerKm:         p.cfg.BikePricePerKm,
		BikeMaxDistanceKM:      p.cfg.BikeMaxDistanceKM,
		DeliveryMotoBasePrice:  p.cfg.DeliveryMotoBasePrice,
		DeliveryMotoPricePerKm: p.cfg.DeliveryMotoPricePerKm,
	}, nil
}

type PricingService struct {
	provider SettingsProvider
}

func NewPricingService(provider SettingsProvider) *PricingService {
	return &PricingService{provider: provider}
}

// Price computes base + distance*rate for the service type, rounded to two
// decimal places half up. It is pure: the price is computed once at ride
// creation and never recomputed afterwards.
func (s *PricingService) Price(ctx context.Context, serviceType models.ServiceType, distanceKM float64) (float64, error) {
	if distanceKM < 0 || math.IsNaN(distanceKM) || math.IsInf(distanceKM, 0) {
		return 0, apperrors.NewValidationError("distance_km", "must be a non-negative finite number")
	}

	settings, err := s.provider.GetSettings(ctx)
	if err != nil {
		return 0, apperrors.NewTransientError("load pricing settings", err)
	}

	var base, perKm float64
	switch serviceType {
	case models.ServiceTypeMotoTaxi:
		base, perKm = settings.BasePrice, settings.PricePerKm
	case models.ServiceTypeMotoDelivery:
		base, perKm = settings.DeliveryMotoBasePrice, settings.DeliveryMotoPricePerKm
	case models.ServiceTypeBikeDelivery:
		if settings.BikeMaxDistanceKM > 0 && distanceKM > settings.BikeMaxDistanceKM {
			return 0, apperrors.NewValidationError("distance_km",
				fmt.Sprintf("bike deliveries are limited to %.1f km", settings.BikeMaxDistanceKM))
		}
		base, perKm = settings.BikeBasePrice, settings.BikePricePerKm
	default:
		return 0, apperrors.NewValidationError("service_type", fmt.Sprintf("unknown service type %q", serviceType))
	}

	return utils.RoundMoney(base + distanceKM*perKm), nil
}
