package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"

	kafka "github.com/moviereel/ratings-pipeline/internal/delivery/kafka"
	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

type Producer interface {
	PublishRatingSubmitted(ctx context.Context, event kafka.RatingSubmittedEvent) error
	PublishDeadLetter(ctx context.Context, event kafka.DeadLetterEvent) error
}

// BrokerSource hands out the live producer channel and takes failure
// reports. Implemented by broker.Manager.
type BrokerSource interface {
	Producer() (sarama.SyncProducer, error)
	NotifyFailure(ctx context.Context, err error)
}

type implProducer struct {
	src BrokerSource
	l   logger.Logger
}

func NewProducer(src BrokerSource, l logger.Logger) Producer {
	return &implProducer{
		src: src,
		l:   l,
	}
}

func (p *implProducer) PublishRatingSubmitted(ctx context.Context, event kafka.RatingSubmittedEvent) error {
	return p.publish(ctx, kafka.TopicRatingSubmitted, event.MovieID, event)
}

func (p *implProducer) PublishDeadLetter(ctx context.Context, event kafka.DeadLetterEvent) error {
	return p.publish(ctx, kafka.TopicRatingDeadLetter, event.Topic, event)
}

func (p *implProducer) publish(ctx context.Context, topic, key string, event any) error {
	prod, err := p.src.Producer()
	if err != nil {
		return err
	}

	val, err := json.Marshal(event)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.publish: %v", err)
		return fmt.Errorf("marshaling event for %s: %w", topic, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(val),
	}

	if _, _, err := prod.SendMessage(msg); err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.publish: %v", err)
		if isConnectionError(err) {
			p.src.NotifyFailure(ctx, err)
		}
		return fmt.Errorf("sending message to %s: %w", topic, err)
	}

	return nil
}

// isConnectionError reports whether a send failure means the broker
// connection itself is dead, in which case the manager's reconnect loop is
// woken. Everything else surfaces to the caller as a plain publish failure.
func isConnectionError(err error) bool {
	return errors.Is(err, sarama.ErrOutOfBrokers) ||
		errors.Is(err, sarama.ErrClosedClient) ||
		errors.Is(err, sarama.ErrNotConnected) ||
		errors.Is(err, sarama.ErrShuttingDown)
}
