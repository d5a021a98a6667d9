package consumer

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"golang.org/x/sync/errgroup"

	kafka "github.com/moviereel/ratings-pipeline/internal/delivery/kafka"
	"github.com/moviereel/ratings-pipeline/internal/delivery/kafka/producer"
	repo "github.com/moviereel/ratings-pipeline/internal/repository/redis"
	"github.com/moviereel/ratings-pipeline/internal/service"
	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

// Consumer drains the ratings topic and persists each submission. A message
// is marked consumed only after a successful insert; anything else leaves it
// pending so the broker redelivers it.
type Consumer struct {
	consGr       sarama.ConsumerGroup
	ingestSvc    service.IngestService
	redeliveries repo.RedeliveryRepository
	prod         producer.Producer
	maxAttempts  int64
	l            logger.Logger
}

func NewConsumer(
	consGr sarama.ConsumerGroup,
	ingestSvc service.IngestService,
	redeliveries repo.RedeliveryRepository,
	prod producer.Producer,
	maxAttempts int64,
	l logger.Logger,
) *Consumer {
	return &Consumer{
		consGr:       consGr,
		ingestSvc:    ingestSvc,
		redeliveries: redeliveries,
		prod:         prod,
		maxAttempts:  maxAttempts,
		l:            l,
	}
}

// Run blocks until the context is cancelled or the claim session fails. A
// persistence failure surfaces here as a session error so the caller can
// tear the worker down and rebuild it, which is what triggers broker
// redelivery of the unacknowledged message.
func (c *Consumer) Run(ctx context.Context) error {
	topics := []string{kafka.TopicRatingSubmitted}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			if err := c.consGr.Consume(gctx, topics, c); err != nil {
				c.l.Errorf(ctx, "delivery.kafka.consumer.Run: %v", err)
				return err
			}

			if gctx.Err() != nil {
				return gctx.Err()
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case err, ok := <-c.consGr.Errors():
				if !ok {
					return nil
				}
				c.l.Errorf(ctx, "delivery.kafka.consumer.Run: %v", err)
			case <-gctx.Done():
				return nil
			}
		}
	})

	c.l.Infof(ctx, "Consumer is consuming topics: %v", topics)

	return g.Wait()
}

func (c *Consumer) Close() error {
	if err := c.consGr.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}

	return nil
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	c.l.Debug(context.Background(), "Consumer group session started")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	c.l.Debug(context.Background(), "Consumer group session ended")
	return nil
}

func (c *Consumer) ConsumeClaim(ss sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg := <-claim.Messages():
			if msg == nil {
				return nil
			}

			if err := c.handleRatingSubmitted(ss.Context(), msg); err != nil {
				if c.deadLetter(ss.Context(), msg, err) {
					ss.MarkMessage(msg, "")
					continue
				}

				// Not marked: tearing the session down makes the broker
				// redeliver this message on the next session.
				return fmt.Errorf("processing message at %s/%d/%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
			}

			ss.MarkMessage(msg, "")

		case <-ss.Context().Done():
			return nil
		}
	}
}

// deadLetter records the failure and, once the attempt limit is reached,
// moves the message to the dead-letter topic. Returns true when the message
// was re-homed and may be acknowledged. With maxAttempts <= 0 failing
// messages are redelivered forever.
func (c *Consumer) deadLetter(ctx context.Context, msg *sarama.ConsumerMessage, cause error) bool {
	if c.maxAttempts <= 0 {
		return false
	}

	attempts, err := c.redeliveries.Record(ctx, msg.Topic, msg.Partition, msg.Offset)
	if err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.deadLetter: %v", err)
		return false
	}

	if attempts < c.maxAttempts {
		return false
	}

	event := kafka.DeadLetterEvent{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Payload:   msg.Value,
		Reason:    cause.Error(),
		Attempts:  attempts,
		FailedAt:  time.Now(),
	}

	if err := c.prod.PublishDeadLetter(ctx, event); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.deadLetter: %v", err)
		return false
	}

	c.l.Warnf(ctx, "Message at %s/%d/%d moved to dead letter after %d failed attempts",
		msg.Topic, msg.Partition, msg.Offset, attempts)

	return true
}
