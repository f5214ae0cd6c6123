// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/fodinha/internal/cache"
	"github.com/jason-s-yu/fodinha/internal/config"
	"github.com/jason-s-yu/fodinha/internal/database"
	"github.com/jason-s-yu/fodinha/internal/handlers"
	"github.com/jason-s-yu/fodinha/internal/middleware"
	"github.com/jason-s-yu/fodinha/internal/session"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []session.Option{session.WithTrickDelay(cfg.TrickDelay)}

	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		opts = append(opts, session.WithJournal(cache.NewQueue(rdb, cfg.QueueName)))
		logger.Infof("Journaling room events to Redis list %s", cfg.QueueName)
	}

	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("database: %v", err)
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			logger.Fatalf("database migrate: %v", err)
		}
		opts = append(opts, session.WithResultStore(database.NewResultStore(pool)))
		logger.Info("Recording finished games to Postgres")
	}

	gw := session.New(logger, opts...)
	gwDone := make(chan struct{})
	go func() {
		defer close(gwDone)
		gw.Run(ctx)
	}()

	mux := http.NewServeMux()
	logged := middleware.LogMiddleware(logger)

	mux.Handle("/ws", logged(handlers.WSHandler(logger, gw, handlers.WSConfig{
		OriginPatterns:    cfg.OriginPatterns,
		MessagesPerSecond: cfg.MessagesPerSecond,
		Burst:             cfg.Burst,
	})))
	mux.Handle("/rooms", logged(handlers.ListRoomsHandler(gw)))
	mux.Handle("/", logged(http.HandlerFunc(handlers.PingHandler)))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("http shutdown: %v", err)
		}
	}()

	logger.Infof("Running on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server exited: %v", err)
	}
	<-gwDone
	logger.Info("Server stopped")
}
