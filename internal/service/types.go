package service

import "time"

type SubmitRatingInput struct {
	Email   string
	MovieID string
	Rating  float64
	Comment string
}

type SubmitRatingOutput struct {
	SubmittedAt time.Time
}
