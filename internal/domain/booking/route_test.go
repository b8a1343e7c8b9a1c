package booking

import (
	"testing"

	"github.com/flytaxi/service-booking/internal/domain"
	"github.com/flytaxi/service-booking/internal/domain/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mgRoad     = geo.Coordinate{Lat: 12.9756, Lng: 77.6066}
	airport    = geo.Coordinate{Lat: 13.1986, Lng: 77.7066}
	whitefield = geo.Coordinate{Lat: 12.9698, Lng: 77.7500}
)

func TestNewRoute_Validation(t *testing.T) {
	_, err := NewRoute(geo.Coordinate{Lat: 95}, airport, nil)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	_, err = NewRoute(mgRoad, airport, []geo.Coordinate{{Lng: 200}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop 1")

	r, err := NewRoute(mgRoad, airport, nil)
	require.NoError(t, err)
	assert.Empty(t, r.Stops)
}

func TestRoute_DistanceKm(t *testing.T) {
	direct, err := NewRoute(mgRoad, airport, nil)
	require.NoError(t, err)
	assert.InDelta(t, geo.DistanceKm(mgRoad, airport), direct.DistanceKm(), 1e-9)

	viaStop, err := NewRoute(mgRoad, airport, []geo.Coordinate{whitefield})
	require.NoError(t, err)
	want := geo.DistanceKm(mgRoad, whitefield) + geo.DistanceKm(whitefield, airport)
	assert.InDelta(t, want, viaStop.DistanceKm(), 1e-9)
	assert.Equal(t, []geo.Coordinate{mgRoad, whitefield, airport}, viaStop.Points())
}

func TestRouteBuilder_SelectionPolicy(t *testing.T) {
	var b RouteBuilder
	assert.Equal(t, "pickup", b.NextSelection())
	assert.False(t, b.Ready())
	assert.Zero(t, b.DistanceKm())

	require.NoError(t, b.AddPoint(mgRoad))
	assert.Equal(t, "destination", b.NextSelection())
	assert.Zero(t, b.DistanceKm())

	require.NoError(t, b.AddPoint(airport))
	assert.True(t, b.Ready())
	assert.Equal(t, "stop", b.NextSelection())

	// a third point is appended as a stop; the endpoints are kept
	require.NoError(t, b.AddPoint(whitefield))
	assert.Equal(t, mgRoad, *b.Start)
	assert.Equal(t, airport, *b.End)
	assert.Equal(t, []geo.Coordinate{whitefield}, b.Stops)

	r, err := b.Route()
	require.NoError(t, err)
	assert.Equal(t, []geo.Coordinate{mgRoad, whitefield, airport}, r.Points())
}

func TestRouteBuilder_RemoveStop(t *testing.T) {
	b := RouteBuilder{Start: &mgRoad, End: &airport}
	require.NoError(t, b.AddPoint(whitefield))
	require.NoError(t, b.AddPoint(mgRoad))

	require.NoError(t, b.RemoveStop(0))
	assert.Equal(t, []geo.Coordinate{mgRoad}, b.Stops)

	err := b.RemoveStop(3)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Error(t, b.RemoveStop(-1))
}

func TestRouteBuilder_RejectsInvalidPoint(t *testing.T) {
	var b RouteBuilder
	err := b.AddPoint(geo.Coordinate{Lat: -100})
	require.Error(t, err)
	assert.Nil(t, b.Start)

	_, err = b.Route()
	assert.True(t, domain.IsValidation(err))
}
