package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moviereel/ratings-pipeline/config"
	"github.com/moviereel/ratings-pipeline/internal/broker"
	httpDelivery "github.com/moviereel/ratings-pipeline/internal/delivery/http"
	kafkaDelivery "github.com/moviereel/ratings-pipeline/internal/delivery/kafka"
	"github.com/moviereel/ratings-pipeline/internal/delivery/kafka/producer"
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

	// The manager keeps reconnecting in the background; requests arriving
	// while the broker is down are answered with 503 instead of being
	// buffered in process memory.
	mgr := broker.NewManager(cfg.Kafka, kafkaDelivery.Topics(), l)
	mgr.Start(ctx)
	defer mgr.Stop()

	prod := producer.NewProducer(mgr, l)
	ratingSvc := service.NewRatingService(prod, l)

	h := httpDelivery.NewHandler(ratingSvc, mgr, l)
	router := httpDelivery.NewRouter(h, l)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		l.Infof(ctx, "HTTP server is listening on port: %d", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatalf(ctx, "Failed to serve HTTP: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info(ctx, "Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Errorf(ctx, "Failed to shut down HTTP server: %v", err)
	}

	cancel()

	l.Info(ctx, "Server exited")
}
