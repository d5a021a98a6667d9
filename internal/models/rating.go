package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingSubmission is the unit of work flowing through the pipeline. It is
// built by the producer at acceptance time and is immutable once published.
type RatingSubmission struct {
	Email       string    `json:"email"`
	MovieID     string    `json:"movieId"`
	Rating      float64   `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"timestamp"`
}

// PersistedRating is the stored form of a submission: the same fields plus
// an identifier and storage timestamp assigned at insert time. The pipeline
// never updates or deletes these records.
type PersistedRating struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	MovieID     string    `json:"movieId"`
	Rating      float64   `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"timestamp"`
	StoredAt    time.Time `json:"stored_at"`
}
