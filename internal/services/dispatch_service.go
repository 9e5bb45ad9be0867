package services

import (
	"context"
	"sort"

	"motoride/internal/apperrors"
	"motoride/internal/config"
	"motoride/internal/models"
	"motoride/internal/repositories/interfaces"
	"motoride/internal/utils"
)

// DispatchService surfaces pending ride requests to nearby drivers. It is a
// pure read over the store and is safe to poll.
type DispatchService struct {
	repo            interfaces.RideRepository
	maxResults      int
	defaultRadiusKM float64
	maxRadiusKM     float64
}

func NewDispatchService(repo interfaces.RideRepository, cfg *config.DispatchConfig) *DispatchService {
	s := &DispatchService{
		repo:            repo,
		maxResults:      utils.DefaultDispatchLimit,
		defaultRadiusKM: utils.DefaultSearchRadiusKM,
		maxRadiusKM:     utils.MaxSearchRadiusKM,
	}
	if cfg != nil {
		if cfg.MaxResults > 0 {
			s.maxResults = cfg.MaxResults
		}
		if cfg.DefaultRadiusKM > 0 {
			s.defaultRadiusKM = cfg.DefaultRadiusKM
		}
		if cfg.MaxRadiusKM > 0 {
			s.maxRadiusKM = cfg.MaxRadiusKM
		}
	}
	return s
}

// FindNearbyPending returns pending rides whose origin lies within radiusKM
// of the driver, most recent first, capped at the configured maximum. Rides
// whose origin was never geocoded are always included: better to show an
// unlocatable ride than hide it.
func (s *DispatchService) FindNearbyPending(ctx context.Context, driverLocation models.GeoPoint, radiusKM float64) ([]*models.Ride, error) {
	if radiusKM <= 0 {
		radiusKM = s.defaultRadiusKM
	}
	if radiusKM > s.maxRadiusKM {
		return nil, apperrors.NewValidationError("radius_km", "exceeds the maximum search radius")
	}

	pending, err := s.repo.GetByStatus(ctx, models.RideStatusPending)
	if err != nil {
		return nil, err
	}

	nearby := make([]*models.Ride, 0, len(pending))
	for _, ride := range pending {
		if !ride.Origin.HasCoordinates() {
			nearby = append(nearby, ride)
			continue
		}
		origin := ride.Origin.Coordinates
		if utils.IsWithinRadius(driverLocation.Latitude, driverLocation.Longitude, origin.Latitude, origin.Longitude, radiusKM) {
			nearby = append(nearby, ride)
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].CreatedAt.After(nearby[j].CreatedAt)
	})

	if len(nearby) > s.maxResults {
		nearby = nearby[:s.maxResults]
	}

	return nearby, nil
}
