package booking

import (
	"fmt"

	"github.com/flytaxi/service-booking/internal/domain"
)

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusArriving  BookingStatus = "arriving"
	StatusInFlight  BookingStatus = "in_flight"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// validTransitions defines the state machine for booking status transitions.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusConfirmed: {StatusArriving, StatusCancelled},
	StatusArriving:  {StatusInFlight, StatusCancelled},
	StatusInFlight:  {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

var statusMessages = map[BookingStatus]string{
	StatusConfirmed: "Your FlyTaxi is confirmed and on its way",
	StatusArriving:  "Your FlyTaxi is arriving at pickup location",
	StatusInFlight:  "You're in flight! Enjoy the journey",
	StatusCompleted: "Journey completed. Thank you for flying with us!",
	StatusCancelled: "This booking has been cancelled",
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Message returns the rider-facing description of the status.
func (s BookingStatus) Message() string {
	if m, ok := statusMessages[s]; ok {
		return m
	}
	return "Processing your booking..."
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", s))
	}
	return status, nil
}
