//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/flytaxi/service-booking/internal/application"
	"github.com/flytaxi/service-booking/internal/contracts"
	bookingDomain "github.com/flytaxi/service-booking/internal/domain/booking"
	"github.com/flytaxi/service-booking/internal/domain/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFleetEvents_DriveBookingLifecycle verifies that fleet events published to
// fleet.events advance a booking through arriving, in_flight and completed,
// and that each transition is announced on booking.events.
func TestFleetEvents_DriveBookingLifecycle(t *testing.T) {
	infra := setupInfra(t)
	stack := setupBookingStack(t, infra)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := geo.Coordinate{Lat: 13.0358, Lng: 77.5970}
	created, err := stack.Service.CreateBooking(ctx, application.CreateBookingRequest{
		Start: &geo.Coordinate{Lat: 12.9716, Lng: 77.5946},
		End:   &geo.Coordinate{Lat: 13.1986, Lng: 77.7066},
		Stops: []geo.Coordinate{stop},
		Tier:  "premium",
	})
	require.NoError(t, err)

	stored := waitForStatus(t, infra.Repo, created.ID, bookingDomain.StatusConfirmed, 5*time.Second)
	assert.InDelta(t, created.DistanceKm, stored.DistanceKm(), 1e-9)
	assert.InDelta(t, created.FareAmount, stored.FareAmount(), 1e-9)
	assert.Equal(t, []geo.Coordinate{stop}, stored.Route().Stops)

	confirmed := firstEventOfType(t, infra.KafkaBrokers, contracts.TopicBookingEvents,
		contracts.BookingConfirmed, 15*time.Second)
	var confirmedEvt contracts.BookingConfirmedEvent
	require.NoError(t, confirmed.ParseData(&confirmedEvt))
	assert.Equal(t, created.ID, confirmedEvt.BookingID)
	assert.Equal(t, 4, confirmedEvt.Seats)
	assert.Equal(t, 1, confirmedEvt.StopCount)

	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // consumer group join

	steps := []struct {
		eventType string
		status    bookingDomain.BookingStatus
	}{
		{contracts.FleetAircraftDispatched, bookingDomain.StatusArriving},
		{contracts.FleetFlightDeparted, bookingDomain.StatusInFlight},
		{contracts.FleetFlightLanded, bookingDomain.StatusCompleted},
	}
	for _, step := range steps {
		publishFleetEvent(t, stack, step.eventType, created.ID)
		waitForStatus(t, infra.Repo, created.ID, step.status, 15*time.Second)
	}

	// A late cancellation is discarded; the booking stays completed.
	publishFleetEvent(t, stack, contracts.FleetFlightCancelled, created.ID)
	time.Sleep(2 * time.Second)
	final := waitForStatus(t, infra.Repo, created.ID, bookingDomain.StatusCompleted, 5*time.Second)
	assert.Equal(t, int64(4), final.Version())
	assert.InDelta(t, created.FareAmount, final.FareAmount(), 1e-9)

	changed := firstEventOfType(t, infra.KafkaBrokers, contracts.TopicBookingEvents,
		contracts.BookingStatusChanged, 15*time.Second)
	var changedEvt contracts.BookingStatusChangedEvent
	require.NoError(t, changed.ParseData(&changedEvt))
	assert.Equal(t, created.ID, changedEvt.BookingID)
	assert.Equal(t, "confirmed", changedEvt.FromStatus)
	assert.Equal(t, "arriving", changedEvt.ToStatus)
}
