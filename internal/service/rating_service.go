package service

import (
	"context"
	"errors"
	"time"

	"github.com/moviereel/ratings-pipeline/internal/broker"
	kafka "github.com/moviereel/ratings-pipeline/internal/delivery/kafka"
	"github.com/moviereel/ratings-pipeline/internal/delivery/kafka/producer"
	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

type RatingService interface {
	SubmitRating(ctx context.Context, in SubmitRatingInput) (SubmitRatingOutput, error)
}

type ratingService struct {
	prod producer.Producer
	now  func() time.Time
	l    logger.Logger
}

func NewRatingService(prod producer.Producer, l logger.Logger) RatingService {
	return &ratingService{
		prod: prod,
		now:  time.Now,
		l:    l,
	}
}

// SubmitRating stamps the submission with the server's current time and
// publishes it to the ratings topic. A nil return means the rating was
// durably enqueued, not that it reached storage.
func (s *ratingService) SubmitRating(ctx context.Context, in SubmitRatingInput) (SubmitRatingOutput, error) {
	submittedAt := s.now()

	event := kafka.RatingSubmittedEvent{
		Email:     in.Email,
		MovieID:   in.MovieID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Timestamp: submittedAt,
	}

	if err := s.prod.PublishRatingSubmitted(ctx, event); err != nil {
		if errors.Is(err, broker.ErrBrokerUnavailable) {
			return SubmitRatingOutput{}, ErrBrokerUnavailable
		}
		s.l.Errorf(ctx, "service.ratingService.SubmitRating: %v", err)
		return SubmitRatingOutput{}, ErrPublishFailed
	}

	s.l.Debugf(ctx, "Rating enqueued for movie %s", in.MovieID)

	return SubmitRatingOutput{SubmittedAt: submittedAt}, nil
}
