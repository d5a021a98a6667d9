package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/moviereel/ratings-pipeline/config"
	pkgMongo "github.com/moviereel/ratings-pipeline/pkg/mongo"
)

func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	cli, err := pkgMongo.NewClient(connectCtx, cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := cli.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return cli, nil
}

func Disconnect(ctx context.Context, cli *mongo.Client) {
	if cli == nil {
		return
	}

	_ = cli.Disconnect(ctx)
}
