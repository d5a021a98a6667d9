package kafka

const (
	// TopicRatingSubmitted carries accepted rating submissions from the
	// producer service to the consumer worker.
	TopicRatingSubmitted = "ratings.submitted"

	// TopicRatingDeadLetter receives submissions that exhausted their
	// delivery attempts without a successful insert.
	TopicRatingDeadLetter = "ratings.deadletter"
)

func Topics() []string {
	return []string{TopicRatingSubmitted, TopicRatingDeadLetter}
}
