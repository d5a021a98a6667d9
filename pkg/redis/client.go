package redis

import (
	"github.com/redis/go-redis/v9"

	"github.com/moviereel/ratings-pipeline/config"
)

func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return client, nil
}
