package booking

import (
	"strconv"

	"github.com/flytaxi/service-booking/internal/domain/geo"
)

// FixedFee is charged on every priced route regardless of tier.
const FixedFee = 100.0

// Fare returns distanceKm * tier rate + FixedFee. It returns 0 while the route
// is incomplete (distance 0) or no tier is selected. The result is not rounded.
func Fare(distanceKm float64, tier *Tier) float64 {
	if tier == nil || !tier.IsValid() || distanceKm == 0 {
		return 0
	}
	return distanceKm*tier.RatePerKm() + FixedFee
}

// FormatAmount renders an amount with two decimal places for display.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// PricingStrategy defines the interface for calculating fares.
type PricingStrategy interface {
	// Calculate returns the fare for the given distance and tier.
	Calculate(distanceKm float64, tier *Tier) float64
}

// LinearPricingStrategy prices a route at a per-tier rate plus a fixed fee.
type LinearPricingStrategy struct{}

// NewLinearPricingStrategy creates a new LinearPricingStrategy.
func NewLinearPricingStrategy() *LinearPricingStrategy {
	return &LinearPricingStrategy{}
}

// Calculate implements PricingStrategy.
func (s *LinearPricingStrategy) Calculate(distanceKm float64, tier *Tier) float64 {
	return Fare(distanceKm, tier)
}

// FareBreakdown is the itemised view of a fare shown to riders.
type FareBreakdown struct {
	DistanceKm       float64 `json:"distance_km"`
	Tier             *Tier   `json:"tier,omitempty"`
	RatePerKm        float64 `json:"rate_per_km"`
	FixedFee         float64 `json:"fixed_fee"`
	Total            float64 `json:"total"`
	TotalDisplay     string  `json:"total_display"`
	EstimatedMinutes int     `json:"estimated_flight_minutes"`
}

// NewFareBreakdown itemises the fare produced by strategy for the given route length and tier.
func NewFareBreakdown(strategy PricingStrategy, distanceKm float64, tier *Tier) FareBreakdown {
	total := strategy.Calculate(distanceKm, tier)
	b := FareBreakdown{
		DistanceKm:       distanceKm,
		Tier:             tier,
		Total:            total,
		TotalDisplay:     FormatAmount(total),
		EstimatedMinutes: geo.EstimatedFlightMinutes(distanceKm),
	}
	if total > 0 {
		b.RatePerKm = tier.RatePerKm()
		b.FixedFee = FixedFee
	}
	return b
}
