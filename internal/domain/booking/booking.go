package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/flytaxi/service-booking/internal/domain"
	"github.com/google/uuid"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	route         Route
	distanceKm    float64
	tier          Tier
	fareAmount    float64
	currency      string
	status        BookingStatus

	version     int64
	bookingTime time.Time
	updatedAt   time.Time
}

// generateBookingNumber creates a booking number in the format "FT-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "FT-" + string(result), nil
}

// NewBooking creates a confirmed Booking. Distance and fare are computed here
// once and never recomputed.
func NewBooking(route Route, tier Tier, pricing PricingStrategy, currency string) (*Booking, error) {
	if !tier.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid tier: %s", tier))
	}
	distanceKm := route.DistanceKm()
	if distanceKm <= 0 {
		return nil, domain.NewValidationError("pickup and destination must differ")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		bookingNumber: bookingNumber,
		route:         route,
		distanceKm:    distanceKm,
		tier:          tier,
		fareAmount:    pricing.Calculate(distanceKm, &tier),
		currency:      currency,
		status:        StatusConfirmed,
		version:       1,
		bookingTime:   now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	route Route,
	distanceKm float64,
	tier Tier,
	fareAmount float64,
	currency string,
	status BookingStatus,
	version int64,
	bookingTime time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		bookingNumber: bookingNumber,
		route:         route,
		distanceKm:    distanceKm,
		tier:          tier,
		fareAmount:    fareAmount,
		currency:      currency,
		status:        status,
		version:       version,
		bookingTime:   bookingTime,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// Route returns the booked route.
func (b *Booking) Route() Route { return b.route }

// DistanceKm returns the distance computed at booking time.
func (b *Booking) DistanceKm() float64 { return b.distanceKm }

// Tier returns the booked tier.
func (b *Booking) Tier() Tier { return b.tier }

// FareAmount returns the unrounded fare computed at booking time.
func (b *Booking) FareAmount() float64 { return b.fareAmount }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// BookingTime returns the creation timestamp.
func (b *Booking) BookingTime() time.Time { return b.bookingTime }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// TransitionTo moves the booking to target if the lifecycle allows it.
func (b *Booking) TransitionTo(target BookingStatus) error {
	if !target.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", target))
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
