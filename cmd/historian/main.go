// cmd/historian/main.go drains the room event journal from Redis into Postgres.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/fodinha/internal/cache"
	"github.com/jason-s-yu/fodinha/internal/config"
	"github.com/jason-s-yu/fodinha/internal/database"
	"github.com/jason-s-yu/fodinha/internal/historian"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger()

	if cfg.RedisAddr == "" || cfg.DatabaseURL == "" {
		logger.Fatal("historian needs both REDIS_ADDR and DATABASE_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatalf("database migrate: %v", err)
	}

	svc := historian.NewService(
		cache.NewQueue(rdb, cfg.QueueName),
		database.NewEventStore(pool),
		logger,
		cfg.HistorianBatchSize,
		cfg.HistorianFlush,
	)
	svc.Run(ctx)
	logger.Info("Historian shutdown complete.")
}
