package contracts

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicFleetEvents   = "fleet.events"
)

// Event types published by this service.
const (
	BookingConfirmed     = "booking.confirmed"
	BookingStatusChanged = "booking.status_changed"
)

// Event types consumed from the fleet.
const (
	FleetAircraftDispatched = "fleet.aircraft.dispatched"
	FleetFlightDeparted     = "fleet.flight.departed"
	FleetFlightLanded       = "fleet.flight.landed"
	FleetFlightCancelled    = "fleet.flight.cancelled"
)

// BookingConfirmedEvent is published when a booking is created.
type BookingConfirmedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	StartLat      float64   `json:"start_lat"`
	StartLng      float64   `json:"start_lng"`
	EndLat        float64   `json:"end_lat"`
	EndLng        float64   `json:"end_lng"`
	StopCount     int       `json:"stop_count"`
	DistanceKm    float64   `json:"distance_km"`
	Tier          string    `json:"tier"`
	Seats         int       `json:"seats"`
	FareAmount    float64   `json:"fare_amount"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is published after every lifecycle transition.
type BookingStatusChangedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// FleetFlightEvent is the payload of every fleet.* event.
type FleetFlightEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	AircraftID string    `json:"aircraft_id"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
