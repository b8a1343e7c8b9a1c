package booking

import (
	"fmt"

	"github.com/flytaxi/service-booking/internal/domain"
	"github.com/flytaxi/service-booking/internal/domain/geo"
)

// Route is a value object describing a flight from Start to End through Stops in order.
type Route struct {
	Start geo.Coordinate   `json:"start"`
	End   geo.Coordinate   `json:"end"`
	Stops []geo.Coordinate `json:"stops"`
}

// NewRoute creates a Route after validating every coordinate.
func NewRoute(start, end geo.Coordinate, stops []geo.Coordinate) (Route, error) {
	if err := start.Validate(); err != nil {
		return Route{}, domain.NewValidationError("start: " + err.Error())
	}
	if err := end.Validate(); err != nil {
		return Route{}, domain.NewValidationError("end: " + err.Error())
	}
	copied := make([]geo.Coordinate, len(stops))
	for i, s := range stops {
		if err := s.Validate(); err != nil {
			return Route{}, domain.NewValidationError(fmt.Sprintf("stop %d: %s", i+1, err.Error()))
		}
		copied[i] = s
	}
	return Route{Start: start, End: end, Stops: copied}, nil
}

// Points returns the route's coordinates in flight order.
func (r Route) Points() []geo.Coordinate {
	points := make([]geo.Coordinate, 0, len(r.Stops)+2)
	points = append(points, r.Start)
	points = append(points, r.Stops...)
	return append(points, r.End)
}

// DistanceKm returns the summed leg distance. Without stops it equals geo.DistanceKm(Start, End).
func (r Route) DistanceKm() float64 {
	if len(r.Stops) == 0 {
		return geo.DistanceKm(r.Start, r.End)
	}
	return geo.PathDistanceKm(r.Points()...)
}

// RouteBuilder accumulates map selections into a Route.
//
// The first point becomes the start and the second the end. Any later point is
// appended as an intermediate stop ahead of the end; a route is never reset
// implicitly.
type RouteBuilder struct {
	Start *geo.Coordinate  `json:"start,omitempty"`
	End   *geo.Coordinate  `json:"end,omitempty"`
	Stops []geo.Coordinate `json:"stops"`
}

// AddPoint records the next selected point.
func (b *RouteBuilder) AddPoint(p geo.Coordinate) error {
	if err := p.Validate(); err != nil {
		return err
	}
	switch {
	case b.Start == nil:
		b.Start = &p
	case b.End == nil:
		b.End = &p
	default:
		b.Stops = append(b.Stops, p)
	}
	return nil
}

// RemoveStop removes the intermediate stop at index.
func (b *RouteBuilder) RemoveStop(index int) error {
	if index < 0 || index >= len(b.Stops) {
		return domain.NewValidationError(fmt.Sprintf("stop index out of range: %d", index))
	}
	b.Stops = append(b.Stops[:index], b.Stops[index+1:]...)
	return nil
}

// Ready reports whether both endpoints are set.
func (b *RouteBuilder) Ready() bool {
	return b.Start != nil && b.End != nil
}

// NextSelection names what the next point will be used for.
func (b *RouteBuilder) NextSelection() string {
	switch {
	case b.Start == nil:
		return "pickup"
	case b.End == nil:
		return "destination"
	default:
		return "stop"
	}
}

// DistanceKm returns 0 until both endpoints are known.
func (b *RouteBuilder) DistanceKm() float64 {
	r, err := b.Route()
	if err != nil {
		return 0
	}
	return r.DistanceKm()
}

// Route builds the Route, failing while an endpoint is missing.
func (b *RouteBuilder) Route() (Route, error) {
	if !b.Ready() {
		return Route{}, domain.NewValidationError("route requires both a pickup and a destination")
	}
	return NewRoute(*b.Start, *b.End, b.Stops)
}
