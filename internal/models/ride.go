package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideStatus string
type ServiceType string
type PaymentMethod string
type PaymentStatus string

const (
	RideStatusPending    RideStatus = "pending"
	RideStatusAccepted   RideStatus = "accepted"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"

	ServiceTypeMotoTaxi     ServiceType = "moto_taxi"
	ServiceTypeMotoDelivery ServiceType = "moto_delivery"
	ServiceTypeBikeDelivery ServiceType = "bike_delivery"

	PaymentMethodPix       PaymentMethod = "pix"
	PaymentMethodCash      PaymentMethod = "cash"
	PaymentMethodCorporate PaymentMethod = "corporate"

	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusCompleted      PaymentStatus = "completed"
	PaymentStatusPendingInvoice PaymentStatus = "pending_invoice"
)

// PassengerSnapshot is a point-in-time copy of the passenger profile embedded
// into the ride document. Later profile edits must not alter past rides.
type PassengerSnapshot struct {
	ID     string  `json:"id" bson:"id" validate:"required"`
	Name   string  `json:"name" bson:"name"`
	Phone  string  `json:"phone" bson:"phone"`
	Rating float64 `json:"rating" bson:"rating"`
}

// DriverSnapshot is embedded at the moment the ride is accepted.
type DriverSnapshot struct {
	ID      string  `json:"id" bson:"id" validate:"required"`
	Name    string  `json:"name" bson:"name"`
	Phone   string  `json:"phone" bson:"phone"`
	Rating  float64 `json:"rating" bson:"rating"`
	Vehicle string  `json:"vehicle" bson:"vehicle"`
	Plate   string  `json:"plate" bson:"plate"`
}

type DeliveryType string

const (
	DeliveryTypeSend    DeliveryType = "send"
	DeliveryTypeReceive DeliveryType = "receive"
)

type DeliveryDetails struct {
	Type         DeliveryType `json:"type" bson:"type"`
	ContactName  string       `json:"contact_name" bson:"contact_name"`
	ContactPhone string       `json:"contact_phone" bson:"contact_phone"`
	Instructions string       `json:"instructions" bson:"instructions"`
}

type Ride struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Passenger          PassengerSnapshot  `json:"passenger" bson:"passenger" validate:"required"`
	Driver             *DriverSnapshot    `json:"driver" bson:"driver"`
	Origin             Location           `json:"origin" bson:"origin" validate:"required"`
	Destination        Location           `json:"destination" bson:"destination" validate:"required"`
	Waypoints          []GeoPoint         `json:"waypoints" bson:"waypoints"`
	RoutePolyline      string             `json:"route_polyline" bson:"route_polyline"`
	ServiceType        ServiceType        `json:"service_type" bson:"service_type" validate:"required"`
	Price              float64            `json:"price" bson:"price"`
	DistanceText       string             `json:"distance_text" bson:"distance_text"`
	DurationText       string             `json:"duration_text" bson:"duration_text"`
	PaymentMethod      PaymentMethod      `json:"payment_method" bson:"payment_method"`
	PaymentStatus      PaymentStatus      `json:"payment_status" bson:"payment_status"`
	Status             RideStatus         `json:"status" bson:"status"`
	DeliveryDetails    *DeliveryDetails   `json:"delivery_details" bson:"delivery_details"`
	SecurityCode       string             `json:"security_code" bson:"security_code"`
	CompanyID          string             `json:"company_id" bson:"company_id"`
	CancellationReason string             `json:"cancellation_reason" bson:"cancellation_reason"`
	CancelledBy        string             `json:"cancelled_by" bson:"cancelled_by"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	AcceptedAt         *time.Time         `json:"accepted_at" bson:"accepted_at"`
	StartedAt          *time.Time         `json:"started_at" bson:"started_at"`
	CompletedAt        *time.Time         `json:"completed_at" bson:"completed_at"`
	CancelledAt        *time.Time         `json:"cancelled_at" bson:"cancelled_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

// AllowedTransitions encodes the ride state flow. Cancellation is legal from
// every non-terminal state; completed and cancelled are terminal.
var AllowedTransitions = map[RideStatus][]RideStatus{
	RideStatusPending:    {RideStatusAccepted, RideStatusCancelled},
	RideStatusAccepted:   {RideStatusInProgress, RideStatusCancelled},
	RideStatusInProgress: {RideStatusCompleted, RideStatusCancelled},
}

func CanTransition(from, to RideStatus) bool {
	for _, next := range AllowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceTypeMotoTaxi, ServiceTypeMotoDelivery, ServiceTypeBikeDelivery:
		return true
	}
	return false
}
