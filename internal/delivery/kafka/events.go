package kafka

import (
	"encoding/json"
	"time"
)

// RatingSubmittedEvent is the wire form of a rating submission. Field names
// match the public submission contract; Timestamp is stamped by the producer
// service at acceptance time, never taken from the client.
type RatingSubmittedEvent struct {
	Email     string    `json:"email"`
	MovieID   string    `json:"movieId"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DeadLetterEvent wraps a submission that repeatedly failed to persist,
// together with enough provenance to replay it by hand.
type DeadLetterEvent struct {
	Topic     string          `json:"topic"`
	Partition int32           `json:"partition"`
	Offset    int64           `json:"offset"`
	Payload   json.RawMessage `json:"payload"`
	Reason    string          `json:"reason"`
	Attempts  int64           `json:"attempts"`
	FailedAt  time.Time       `json:"failed_at"`
}
