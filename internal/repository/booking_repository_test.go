package repository

import (
	"testing"

	"github.com/flytaxi/service-booking/internal/domain"
	bookingDomain "github.com/flytaxi/service-booking/internal/domain/booking"
	"github.com/flytaxi/service-booking/internal/domain/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingModelConversion_EchoesComputedValues(t *testing.T) {
	route, err := bookingDomain.NewRoute(
		geo.Coordinate{Lat: 12.9716, Lng: 77.5946},
		geo.Coordinate{Lat: 13.1986, Lng: 77.7066},
		[]geo.Coordinate{{Lat: 13.05, Lng: 77.65}},
	)
	require.NoError(t, err)
	bk, err := bookingDomain.NewBooking(route, bookingDomain.TierStandard, bookingDomain.NewLinearPricingStrategy(), domain.CurrencyINR)
	require.NoError(t, err)

	model, err := toBookingModel(bk)
	require.NoError(t, err)
	assert.Equal(t, "standard", model.Tier)
	assert.Equal(t, "confirmed", model.Status)
	assert.Equal(t, bk.FareAmount(), model.FareAmount)
	assert.JSONEq(t, `[{"lat":13.05,"lng":77.65}]`, string(model.Stops))

	back, err := toDomainBooking(model)
	require.NoError(t, err)
	assert.Equal(t, bk.ID(), back.ID())
	assert.Equal(t, bk.Route(), back.Route())
	assert.Equal(t, bk.DistanceKm(), back.DistanceKm())
	assert.Equal(t, bk.FareAmount(), back.FareAmount())
	assert.Equal(t, bk.Status(), back.Status())
}

func TestToBookingModel_NoStopsStoresEmptyArray(t *testing.T) {
	route, err := bookingDomain.NewRoute(geo.Coordinate{Lat: 0, Lng: 0}, geo.Coordinate{Lat: 0, Lng: 1}, nil)
	require.NoError(t, err)
	bk, err := bookingDomain.NewBooking(route, bookingDomain.TierPremium, bookingDomain.NewLinearPricingStrategy(), domain.CurrencyINR)
	require.NoError(t, err)

	model, err := toBookingModel(bk)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(model.Stops))
}

func TestToDomainBooking_RejectsUnknownStatus(t *testing.T) {
	_, err := toDomainBooking(&BookingModel{Status: "boarding", Stops: []byte("[]")})
	assert.Error(t, err)
}
