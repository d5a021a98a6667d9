package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moviereel/ratings-pipeline/config"
	"github.com/moviereel/ratings-pipeline/internal/broker"
	kafkaDelivery "github.com/moviereel/ratings-pipeline/internal/delivery/kafka"
	"github.com/moviereel/ratings-pipeline/internal/delivery/kafka/consumer"
	"github.com/moviereel/ratings-pipeline/internal/delivery/kafka/producer"
	mongoInfra "github.com/moviereel/ratings-pipeline/internal/infra/mongo"
	redisInfra "github.com/moviereel/ratings-pipeline/internal/infra/redis"
	memoryRepo "github.com/moviereel/ratings-pipeline/internal/repository/memory"
	mongoRepo "github.com/moviereel/ratings-pipeline/internal/repository/mongo"
	redisRepo "github.com/moviereel/ratings-pipeline/internal/repository/redis"
	"github.com/moviereel/ratings-pipeline/internal/service"
	pkgLog "github.com/moviereel/ratings-pipeline/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		l.Info(ctx, "Worker shutting down...")
		cancel()
	}()

	// The worker never gives up: any infrastructure failure tears the run
	// down and the whole startup (store, then broker) is re-established
	// after a fixed wait.
	for {
		err := run(ctx, cfg, l)
		if ctx.Err() != nil {
			break
		}
		l.Errorf(ctx, "Worker stopped: %v. Restarting in %s", err, cfg.Worker.StartupRetryWait)

		select {
		case <-time.After(cfg.Worker.StartupRetryWait):
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}

	l.Info(ctx, "Worker exited")
}

func run(ctx context.Context, cfg *config.Config, l pkgLog.Logger) error {
	mongoCli, err := mongoInfra.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connecting to MongoDB: %w", err)
	}
	defer mongoInfra.Disconnect(context.Background(), mongoCli)
	l.Info(ctx, "Connected to MongoDB")

	ratingRepo, err := mongoRepo.NewMongoRatingRepository(ctx, mongoCli, cfg.Mongo.Database, l)
	if err != nil {
		return fmt.Errorf("initializing rating repository: %w", err)
	}

	var redeliveries redisRepo.RedeliveryRepository
	if cfg.Worker.MaxDeliveryAttempts > 0 {
		redisCli, err := redisInfra.Connect(ctx, cfg.Redis)
		if err != nil {
			l.Warnf(ctx, "Redis unavailable, tracking redeliveries in memory: %v", err)
			redeliveries = memoryRepo.NewMemoryRedeliveryRepository()
		} else {
			defer redisInfra.Disconnect(redisCli)
			redeliveries = redisRepo.NewRedisRedeliveryRepository(redisCli, cfg.Worker.RedeliveryTTL, l)
			l.Info(ctx, "Connected to Redis")
		}
	}

	mgr := broker.NewManager(cfg.Kafka, kafkaDelivery.Topics(), l)
	if err := mgr.Connect(); err != nil {
		return fmt.Errorf("connecting to Kafka: %w", err)
	}
	defer mgr.Stop()
	l.Infof(ctx, "Connected to kafka brokers: %v", cfg.Kafka.Brokers)

	consGr, err := mgr.ConsumerGroup(cfg.Kafka.ConsumerGroupID)
	if err != nil {
		return fmt.Errorf("joining consumer group: %w", err)
	}

	prod := producer.NewProducer(mgr, l)
	ingestSvc := service.NewIngestService(ratingRepo, cfg.Worker.InsertTimeout, l)

	cons := consumer.NewConsumer(consGr, ingestSvc, redeliveries, prod, cfg.Worker.MaxDeliveryAttempts, l)
	defer cons.Close()

	l.Infof(ctx, "Waiting for messages on %s", kafkaDelivery.TopicRatingSubmitted)

	return cons.Run(ctx)
}
