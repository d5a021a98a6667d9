package service

import "errors"

var (
	// ErrBrokerUnavailable means no live broker channel exists right now.
	// The submission was not enqueued; the caller should retry later.
	ErrBrokerUnavailable = errors.New("message broker unavailable")

	// ErrPublishFailed means an otherwise valid submission could not be
	// enqueued. The producer does not retry it internally.
	ErrPublishFailed = errors.New("failed to publish rating")
)
