package models

import (
	"time"
)

type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" bson:"longitude" validate:"min=-180,max=180"`
}

// Location pairs the display address from the geocoding collaborator with its
// coordinates. Coordinates may be nil when the address was never geocoded.
type Location struct {
	Address     string    `json:"address" bson:"address"`
	Coordinates *GeoPoint `json:"coordinates" bson:"coordinates"`
}

func (l Location) HasCoordinates() bool {
	return l.Coordinates != nil
}

// LocationUpdate is one ephemeral driver position tick. It is never written
// to the durable ride document.
type LocationUpdate struct {
	RideID     string    `json:"ride_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}
