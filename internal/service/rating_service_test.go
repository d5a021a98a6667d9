package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviereel/ratings-pipeline/internal/broker"
	kafka "github.com/moviereel/ratings-pipeline/internal/delivery/kafka"
	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

type fakeProducer struct {
	err    error
	events []kafka.RatingSubmittedEvent
}

func (f *fakeProducer) PublishRatingSubmitted(_ context.Context, event kafka.RatingSubmittedEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func (f *fakeProducer) PublishDeadLetter(context.Context, kafka.DeadLetterEvent) error {
	return nil
}

func TestSubmitRating_StampsTimestampAndPublishes(t *testing.T) {
	prod := &fakeProducer{}
	submittedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc := &ratingService{
		prod: prod,
		now:  func() time.Time { return submittedAt },
		l:    logger.InitializeTestZapLogger(),
	}

	out, err := svc.SubmitRating(context.Background(), SubmitRatingInput{
		Email:   "jane@example.com",
		MovieID: "tt0111161",
		Rating:  4.5,
		Comment: "A classic",
	})
	require.NoError(t, err)
	assert.Equal(t, submittedAt, out.SubmittedAt)

	require.Len(t, prod.events, 1)
	assert.Equal(t, kafka.RatingSubmittedEvent{
		Email:     "jane@example.com",
		MovieID:   "tt0111161",
		Rating:    4.5,
		Comment:   "A classic",
		Timestamp: submittedAt,
	}, prod.events[0])
}

func TestSubmitRating_BrokerUnavailable(t *testing.T) {
	prod := &fakeProducer{err: broker.ErrBrokerUnavailable}
	svc := NewRatingService(prod, logger.InitializeTestZapLogger())

	_, err := svc.SubmitRating(context.Background(), SubmitRatingInput{
		Email:   "jane@example.com",
		MovieID: "tt0111161",
		Rating:  4,
	})

	assert.ErrorIs(t, err, ErrBrokerUnavailable)
}

func TestSubmitRating_PublishFailure(t *testing.T) {
	prod := &fakeProducer{err: errors.New("kafka server: request exceeded the user-specified time limit")}
	svc := NewRatingService(prod, logger.InitializeTestZapLogger())

	_, err := svc.SubmitRating(context.Background(), SubmitRatingInput{
		Email:   "jane@example.com",
		MovieID: "tt0111161",
		Rating:  4,
	})

	assert.ErrorIs(t, err, ErrPublishFailed)
}
