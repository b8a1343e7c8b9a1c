package booking

import "strings"

// Tier is the service class of a flight.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

type tierSpec struct {
	ratePerKm float64
	seats     int
}

var tierCatalogue = map[Tier]tierSpec{
	TierStandard: {ratePerKm: 50, seats: 2},
	TierPremium:  {ratePerKm: 80, seats: 4},
}

// IsValid returns true if the tier is recognized.
func (t Tier) IsValid() bool {
	_, ok := tierCatalogue[t]
	return ok
}

// RatePerKm returns the per-kilometer rate, or 0 for an unknown tier.
func (t Tier) RatePerKm() float64 { return tierCatalogue[t].ratePerKm }

// Seats returns the seat count, or 0 for an unknown tier.
func (t Tier) Seats() int { return tierCatalogue[t].seats }

// String returns the string representation of the tier.
func (t Tier) String() string { return string(t) }

// ParseTier maps s to a Tier. Unknown or empty input yields nil, meaning no tier selected.
func ParseTier(s string) *Tier {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return nil
	}
	return &t
}

// AllTiers returns every tier, cheapest first.
func AllTiers() []Tier {
	return []Tier{TierStandard, TierPremium}
}
