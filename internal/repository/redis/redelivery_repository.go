package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

type redisRedeliveryRepository struct {
	cli *redis.Client
	ttl time.Duration
	l   logger.Logger
}

// NewRedisRedeliveryRepository tracks failure counts in Redis so they
// survive worker restarts. Keys expire after ttl; a message that has not
// failed within that window starts from a clean count.
func NewRedisRedeliveryRepository(cli *redis.Client, ttl time.Duration, l logger.Logger) RedeliveryRepository {
	return &redisRedeliveryRepository{
		cli: cli,
		ttl: ttl,
		l:   l,
	}
}

func (r *redisRedeliveryRepository) Record(ctx context.Context, topic string, partition int32, offset int64) (int64, error) {
	key := r.redeliveryKey(topic, partition, offset)

	pipe := r.cli.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		r.l.Errorf(ctx, "repository.redisRedeliveryRepository.Record: %v", err)
		return 0, fmt.Errorf("recording delivery failure: %w", err)
	}

	return incr.Val(), nil
}

func (r *redisRedeliveryRepository) redeliveryKey(topic string, partition int32, offset int64) string {
	return fmt.Sprintf("ratings:redelivery:%s:%d:%d", topic, partition, offset)
}
