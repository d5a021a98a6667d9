package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/moviereel/ratings-pipeline/config"
	pkgRedis "github.com/moviereel/ratings-pipeline/pkg/redis"
)

func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	cli, err := pkgRedis.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return cli, nil
}

func Disconnect(cli *redis.Client) {
	if cli == nil {
		return
	}

	_ = cli.Close()
}
