//go:build integration

package main_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/flytaxi/service-booking/internal/application"
	"github.com/flytaxi/service-booking/internal/config"
	"github.com/flytaxi/service-booking/internal/contracts"
	"github.com/flytaxi/service-booking/internal/database"
	bookingDomain "github.com/flytaxi/service-booking/internal/domain/booking"
	bookingEvents "github.com/flytaxi/service-booking/internal/events"
	"github.com/flytaxi/service-booking/internal/messaging"
	"github.com/flytaxi/service-booking/internal/repository"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// flightInfra is the Postgres and Kafka pair every integration test runs against.
type flightInfra struct {
	Repo         *repository.GormBookingRepository
	KafkaBrokers []string
}

// bookingStack holds wired-up booking service components.
type bookingStack struct {
	Service  *application.BookingService
	Consumer *bookingEvents.FleetEventConsumer
	producer *messaging.Producer
}

// startPostgres runs a throwaway Postgres and returns its connection settings.
func startPostgres(ctx context.Context, t *testing.T) config.DatabaseConfig {
	t.Helper()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "flytaxi",
				"POSTGRES_PASSWORD": "flytaxi",
				"POSTGRES_DB":       "flytaxi_booking_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	return config.DatabaseConfig{
		Host:     host,
		Port:     portNum,
		User:     "flytaxi",
		Password: "flytaxi",
		Name:     "flytaxi_booking_test",
		SSLMode:  "disable",
	}
}

// startKafka runs a single-node KRaft broker with the service topics created.
func startKafka(ctx context.Context, t *testing.T) []string {
	t.Helper()
	container, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	client := &kafkago.Client{Addr: kafkago.TCP(brokers...), Timeout: 10 * time.Second}
	topics := []kafkago.TopicConfig{}
	for _, topic := range []string{contracts.TopicBookingEvents, contracts.TopicFleetEvents} {
		topics = append(topics, kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	}
	resp, err := client.CreateTopics(ctx, &kafkago.CreateTopicsRequest{Topics: topics})
	require.NoError(t, err)
	for topic, topicErr := range resp.Errors {
		require.NoError(t, topicErr, "create topic %s", topic)
	}
	return brokers
}

// setupInfra starts both containers and migrates the schema the way production does.
func setupInfra(t *testing.T) *flightInfra {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	dbCfg := startPostgres(ctx, t)
	require.Eventually(t, func() bool {
		return database.RunMigrations(dbCfg.DatabaseURL(), "migrations", log) == nil
	}, 30*time.Second, time.Second, "postgres did not accept migrations")

	db, err := database.Connect(dbCfg, log)
	require.NoError(t, err)

	return &flightInfra{
		Repo:         repository.NewGormBookingRepository(db),
		KafkaBrokers: startKafka(ctx, t),
	}
}

// setupBookingStack wires the booking service and fleet consumer as main does, minus Redis.
func setupBookingStack(t *testing.T, infra *flightInfra) *bookingStack {
	t.Helper()
	log, _ := zap.NewDevelopment()

	producer := messaging.NewProducer(infra.KafkaBrokers, log)
	svc := application.NewBookingService(infra.Repo, bookingDomain.NewLinearPricingStrategy(), producer, nil, "INR", log)
	groupID := "it-booking-" + uuid.NewString()[:8]

	stack := &bookingStack{
		Service:  svc,
		Consumer: bookingEvents.NewFleetEventConsumer(infra.KafkaBrokers, groupID, svc, log),
		producer: producer,
	}
	t.Cleanup(func() {
		_ = stack.Consumer.Close()
		_ = producer.Close()
	})
	return stack
}

// publishFleetEvent sends a fleet event for bookingID, keyed by the booking.
func publishFleetEvent(t *testing.T, stack *bookingStack, eventType string, bookingID uuid.UUID) {
	t.Helper()
	ce, err := messaging.NewCloudEvent("service-fleet", eventType, contracts.FleetFlightEvent{
		BookingID:  bookingID,
		AircraftID: "VT-FTX7",
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, stack.producer.PublishEvent(context.Background(), contracts.TopicFleetEvents, bookingID.String(), ce))
}

// waitForStatus polls the repository until the booking reaches status.
func waitForStatus(t *testing.T, repo *repository.GormBookingRepository, id uuid.UUID, status bookingDomain.BookingStatus, timeout time.Duration) *bookingDomain.Booking {
	t.Helper()
	var found *bookingDomain.Booking
	require.Eventually(t, func() bool {
		bk, err := repo.FindByID(context.Background(), id)
		if err != nil || bk.Status() != status {
			return false
		}
		found = bk
		return true
	}, timeout, 200*time.Millisecond, "booking %s never reached %s", id, status)
	return found
}

// firstEventOfType reads topic from the beginning with a fresh group until an
// event of eventType arrives.
func firstEventOfType(t *testing.T, brokers []string, topic, eventType string, timeout time.Duration) messaging.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	consumer := messaging.NewConsumer(brokers, fmt.Sprintf("it-assert-%s", uuid.NewString()[:8]), topic, zap.NewNop())
	defer func() { _ = consumer.Close() }()

	var found *messaging.CloudEvent
	_ = consumer.Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		ce, err := messaging.ParseCloudEvent(msg.Value)
		if err == nil && ce.Type == eventType {
			found = &ce
			cancel()
		}
		return nil
	})
	require.NotNil(t, found, "no %s event on %s", eventType, topic)
	return *found
}
