package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviereel/ratings-pipeline/internal/models"
	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

type fakeRatingRepository struct {
	err        error
	inserted   []models.RatingSubmission
	sawTimeout bool
}

func (f *fakeRatingRepository) Insert(ctx context.Context, sub models.RatingSubmission) (*models.PersistedRating, error) {
	_, f.sawTimeout = ctx.Deadline()
	f.inserted = append(f.inserted, sub)
	if f.err != nil {
		return nil, f.err
	}

	return &models.PersistedRating{
		ID:          uuid.New(),
		Email:       sub.Email,
		MovieID:     sub.MovieID,
		Rating:      sub.Rating,
		Comment:     sub.Comment,
		SubmittedAt: sub.SubmittedAt,
		StoredAt:    time.Now(),
	}, nil
}

func TestProcessSubmission_Inserts(t *testing.T) {
	repo := &fakeRatingRepository{}
	svc := NewIngestService(repo, 10*time.Second, logger.InitializeTestZapLogger())

	sub := models.RatingSubmission{
		Email:       "jane@example.com",
		MovieID:     "tt0111161",
		Rating:      4.5,
		Comment:     "A classic",
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, svc.ProcessSubmission(context.Background(), sub))

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, sub, repo.inserted[0])
	assert.True(t, repo.sawTimeout, "insert should run under a deadline")
}

func TestProcessSubmission_NoTimeoutWhenDisabled(t *testing.T) {
	repo := &fakeRatingRepository{}
	svc := NewIngestService(repo, 0, logger.InitializeTestZapLogger())

	require.NoError(t, svc.ProcessSubmission(context.Background(), models.RatingSubmission{
		Email:   "jane@example.com",
		MovieID: "tt0111161",
		Rating:  4,
	}))

	assert.False(t, repo.sawTimeout)
}

func TestProcessSubmission_PropagatesInsertError(t *testing.T) {
	insertErr := errors.New("server selection error")
	repo := &fakeRatingRepository{err: insertErr}
	svc := NewIngestService(repo, time.Second, logger.InitializeTestZapLogger())

	err := svc.ProcessSubmission(context.Background(), models.RatingSubmission{
		Email:   "jane@example.com",
		MovieID: "tt0111161",
		Rating:  4,
	})

	assert.ErrorIs(t, err, insertErr)
}
