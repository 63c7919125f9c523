package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/order"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("load config")
	}
	logger := logging.New("burger-grill", cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatal().Err(err).Msg("db migrate")
		}
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect")
	}
	defer pool.Close()

	// --- Session store ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connect")
	}
	cancelPing()

	// --- AMQP ---
	var publisher order.EventPublisher
	if cfg.EventsEnabled() {
		p, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("rabbitmq connect")
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Info().Msg("RABBITMQ_URL not set, order events disabled")
	}

	catalogRepo := catalog.NewPostgresRepository(pool)
	svc := order.NewService(
		catalogRepo,
		cart.NewRedisStore(rdb, cfg.SessionTTL),
		order.NewPostgresRepository(pool),
		publisher,
		logger,
	)

	// --- HTTP ---
	h := httpapi.NewHandler(svc, catalogRepo)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h, logger, cfg.SessionTTL),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Error().Err(err).Msg("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	logger.Info().Msg("shutdown complete")
}
