package service

import (
	"context"
	"time"

	"github.com/moviereel/ratings-pipeline/internal/models"
	repo "github.com/moviereel/ratings-pipeline/internal/repository/mongo"
	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

type IngestService interface {
	ProcessSubmission(ctx context.Context, sub models.RatingSubmission) error
}

type ingestService struct {
	repo          repo.RatingRepository
	insertTimeout time.Duration
	l             logger.Logger
}

func NewIngestService(repo repo.RatingRepository, insertTimeout time.Duration, l logger.Logger) IngestService {
	return &ingestService{
		repo:          repo,
		insertTimeout: insertTimeout,
		l:             l,
	}
}

// ProcessSubmission converts a consumed submission into a persisted rating.
// The caller acknowledges the message only when this returns nil.
func (s *ingestService) ProcessSubmission(ctx context.Context, sub models.RatingSubmission) error {
	if s.insertTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.insertTimeout)
		defer cancel()
	}

	pr, err := s.repo.Insert(ctx, sub)
	if err != nil {
		s.l.Errorf(ctx, "service.ingestService.ProcessSubmission: %v", err)
		return err
	}

	s.l.Infof(ctx, "Rating %s saved for movie %s", pr.ID, pr.MovieID)

	return nil
}
