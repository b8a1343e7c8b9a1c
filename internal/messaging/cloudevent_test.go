package messaging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	BookingNumber string  `json:"booking_number"`
	Fare          float64 `json:"fare"`
}

func TestCloudEvent_RoundTrip(t *testing.T) {
	ce, err := NewCloudEvent("service-booking", "booking.confirmed", samplePayload{BookingNumber: "FT-ABC234", Fare: 5659.5})
	require.NoError(t, err)
	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.Equal(t, "application/json", ce.DataContentType)
	assert.NotEmpty(t, ce.ID)
	assert.False(t, ce.Time.IsZero())

	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, ce.ID, parsed.ID)
	assert.Equal(t, "booking.confirmed", parsed.Type)

	var payload samplePayload
	require.NoError(t, parsed.ParseData(&payload))
	assert.Equal(t, "FT-ABC234", payload.BookingNumber)
	assert.Equal(t, 5659.5, payload.Fare)
}

func TestParseCloudEvent_Rejects(t *testing.T) {
	_, err := ParseCloudEvent([]byte("{"))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`{"id":"1","source":"x"}`))
	assert.EqualError(t, err, "cloud event has no type")
}

func TestNewCloudEvent_UnmarshalableData(t *testing.T) {
	_, err := NewCloudEvent("service-booking", "x", make(chan int))
	assert.Error(t, err)
}
