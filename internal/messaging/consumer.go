package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	defaultRetryMin = 200 * time.Millisecond
	defaultRetryMax = 10 * time.Second
)

// MessageHandler processes one message. A failing message is retried in
// place until it succeeds or the context ends.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads a topic as part of a consumer group.
type Consumer struct {
	reader   messageReader
	logger   *zap.Logger
	retryMin time.Duration
	retryMax time.Duration
}

// NewConsumer creates a Consumer for topic in groupID.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newConsumer(reader, logger, defaultRetryMin, defaultRetryMax)
}

func newConsumer(reader messageReader, logger *zap.Logger, retryMin, retryMax time.Duration) *Consumer {
	return &Consumer{
		reader:   reader,
		logger:   logger,
		retryMin: retryMin,
		retryMax: retryMax,
	}
}

// Consume fetches messages until ctx is cancelled. Each message is committed
// only after handler succeeds, and the next message is not fetched before then.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err := c.handleWithRetry(ctx, msg, handler); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit message",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *Consumer) handleWithRetry(ctx context.Context, msg kafkago.Message, handler MessageHandler) error {
	delay := c.retryMin
	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg)
		if err == nil {
			return nil
		}

		c.logger.Error("message handler failed, retrying",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > c.retryMax {
			delay = c.retryMax
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
