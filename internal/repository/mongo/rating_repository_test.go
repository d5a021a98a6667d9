package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/moviereel/ratings-pipeline/internal/models"
)

func TestToMongoRating(t *testing.T) {
	pr := &models.PersistedRating{
		ID:          uuid.New(),
		Email:       "jane@example.com",
		MovieID:     "tt0111161",
		Rating:      4.5,
		Comment:     "A classic",
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		StoredAt:    time.Date(2025, 6, 1, 12, 0, 1, 0, time.UTC),
	}

	doc := toMongoRating(pr)

	assert.Equal(t, pr.ID, doc.ID)
	assert.Equal(t, pr.Email, doc.Email)
	assert.Equal(t, pr.MovieID, doc.MovieID)
	assert.Equal(t, pr.Rating, doc.Rating)
	assert.Equal(t, pr.Comment, doc.Comment)
	assert.Equal(t, pr.SubmittedAt, doc.SubmittedAt)
	assert.Equal(t, pr.StoredAt, doc.StoredAt)
}
