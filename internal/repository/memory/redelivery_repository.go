package repository

import (
	"context"
	"fmt"
	"sync"

	repo "github.com/moviereel/ratings-pipeline/internal/repository/redis"
)

type memoryRedeliveryRepository struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewMemoryRedeliveryRepository is the fallback tracker used when Redis is
// unreachable at worker startup. Counts reset when the process restarts,
// which only delays dead-lettering, never loses a message.
func NewMemoryRedeliveryRepository() repo.RedeliveryRepository {
	return &memoryRedeliveryRepository{
		counts: make(map[string]int64),
	}
}

func (r *memoryRedeliveryRepository) Record(_ context.Context, topic string, partition int32, offset int64) (int64, error) {
	key := fmt.Sprintf("%s:%d:%d", topic, partition, offset)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.counts[key]++
	return r.counts[key], nil
}
