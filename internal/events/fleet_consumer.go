package events

import (
	"context"

	"github.com/flytaxi/service-booking/internal/application"
	"github.com/flytaxi/service-booking/internal/contracts"
	"github.com/flytaxi/service-booking/internal/domain"
	bookingDomain "github.com/flytaxi/service-booking/internal/domain/booking"
	"github.com/flytaxi/service-booking/internal/messaging"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// StatusUpdater applies lifecycle transitions to bookings.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status bookingDomain.BookingStatus) (*application.BookingDTO, error)
}

var fleetTransitions = map[string]bookingDomain.BookingStatus{
	contracts.FleetAircraftDispatched: bookingDomain.StatusArriving,
	contracts.FleetFlightDeparted:     bookingDomain.StatusInFlight,
	contracts.FleetFlightLanded:       bookingDomain.StatusCompleted,
	contracts.FleetFlightCancelled:    bookingDomain.StatusCancelled,
}

// FleetEventConsumer listens to fleet operations events and advances booking status.
type FleetEventConsumer struct {
	consumer *messaging.Consumer
	service  StatusUpdater
	logger   *zap.Logger
}

// NewFleetEventConsumer creates a new FleetEventConsumer.
func NewFleetEventConsumer(
	brokers []string,
	groupID string,
	service StatusUpdater,
	logger *zap.Logger,
) *FleetEventConsumer {
	return &FleetEventConsumer{
		consumer: messaging.NewConsumer(brokers, groupID, contracts.TopicFleetEvents, logger),
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming fleet events. This blocks until the context is cancelled.
func (c *FleetEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *FleetEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *FleetEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := messaging.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from fleet topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // malformed messages are not retried
	}

	target, ok := fleetTransitions[cloudEvent.Type]
	if !ok {
		c.logger.Debug("ignoring unhandled fleet event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	var evt contracts.FleetFlightEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse FleetFlightEvent data", zap.Error(err))
		return nil
	}
	if evt.BookingID == uuid.Nil {
		c.logger.Error("fleet event without booking id", zap.String("type", cloudEvent.Type))
		return nil
	}

	c.logger.Info("processing fleet event",
		zap.String("type", cloudEvent.Type),
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("aircraft_id", evt.AircraftID),
	)

	if _, err := c.service.UpdateStatus(ctx, evt.BookingID, target); err != nil {
		// Unknown bookings and out-of-order transitions will never succeed on retry.
		if domain.IsNotFound(err) || domain.IsInvalidState(err) {
			c.logger.Warn("discarding fleet event",
				zap.String("type", cloudEvent.Type),
				zap.String("booking_id", evt.BookingID.String()),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to apply fleet event",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
