package repository

import "context"

// RedeliveryRepository counts delivery failures per queued message so the
// worker can decide when a submission has become a poison message. Counts
// are keyed by topic/partition/offset, which uniquely identifies a message;
// successful messages never touch the tracker.
type RedeliveryRepository interface {
	Record(ctx context.Context, topic string, partition int32, offset int64) (int64, error)
}
