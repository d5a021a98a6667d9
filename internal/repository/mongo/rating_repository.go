package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/moviereel/ratings-pipeline/internal/models"
	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

const ratingsCollection = "ratings"

type RatingRepository interface {
	Insert(ctx context.Context, sub models.RatingSubmission) (*models.PersistedRating, error)
}

type mongoRatingRepository struct {
	coll *mongo.Collection
	l    logger.Logger
}

func NewMongoRatingRepository(ctx context.Context, cli *mongo.Client, dbName string, l logger.Logger) (RatingRepository, error) {
	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &mongoRatingRepository{
		coll: cli.Database(dbName).Collection(ratingsCollection),
		l:    l,
	}, nil
}

// Documents keep their own bson mapping so the models stay free of storage
// tags.
type mongoRating struct {
	ID          uuid.UUID `bson:"_id"`
	Email       string    `bson:"email"`
	MovieID     string    `bson:"movieId"`
	Rating      float64   `bson:"rating"`
	Comment     string    `bson:"comment,omitempty"`
	SubmittedAt time.Time `bson:"timestamp"`
	StoredAt    time.Time `bson:"storedAt"`
}

func (r *mongoRatingRepository) Insert(ctx context.Context, sub models.RatingSubmission) (*models.PersistedRating, error) {
	pr := &models.PersistedRating{
		ID:          uuid.New(),
		Email:       sub.Email,
		MovieID:     sub.MovieID,
		Rating:      sub.Rating,
		Comment:     sub.Comment,
		SubmittedAt: sub.SubmittedAt,
		StoredAt:    time.Now(),
	}

	if _, err := r.coll.InsertOne(ctx, toMongoRating(pr)); err != nil {
		r.l.Errorf(ctx, "repository.mongoRatingRepository.Insert: %v", err)
		return nil, fmt.Errorf("inserting rating: %w", err)
	}

	return pr, nil
}

func toMongoRating(pr *models.PersistedRating) mongoRating {
	return mongoRating{
		ID:          pr.ID,
		Email:       pr.Email,
		MovieID:     pr.MovieID,
		Rating:      pr.Rating,
		Comment:     pr.Comment,
		SubmittedAt: pr.SubmittedAt,
		StoredAt:    pr.StoredAt,
	}
}
