package geo

import (
	"fmt"

	"github.com/flytaxi/service-booking/internal/domain"
)

// Coordinate is an immutable latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinate creates a Coordinate, rejecting values outside the valid ranges.
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	c := Coordinate{Lat: lat, Lng: lng}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate checks latitude is within [-90, 90] and longitude within [-180, 180].
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return domain.NewValidationError(fmt.Sprintf("latitude out of range: %v", c.Lat))
	}
	if c.Lng < -180 || c.Lng > 180 {
		return domain.NewValidationError(fmt.Sprintf("longitude out of range: %v", c.Lng))
	}
	return nil
}

// IsZero reports whether c is the zero value.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// String renders the coordinate with four decimal places.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)
}
