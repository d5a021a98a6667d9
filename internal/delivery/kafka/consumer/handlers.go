package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	kafka "github.com/moviereel/ratings-pipeline/internal/delivery/kafka"
	"github.com/moviereel/ratings-pipeline/internal/models"
)

func (c *Consumer) handleRatingSubmitted(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var e kafka.RatingSubmittedEvent
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.handleRatingSubmitted: %v", err)
		return fmt.Errorf("unmarshaling rating submission: %w", err)
	}

	return c.ingestSvc.ProcessSubmission(ctx, models.RatingSubmission{
		Email:       e.Email,
		MovieID:     e.MovieID,
		Rating:      e.Rating,
		Comment:     e.Comment,
		SubmittedAt: e.Timestamp,
	})
}
