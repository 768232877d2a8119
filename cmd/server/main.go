package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/vistaro/checkout-gateway/internal/backend"
	"github.com/vistaro/checkout-gateway/internal/checkout"
	"github.com/vistaro/checkout-gateway/internal/config"
	"github.com/vistaro/checkout-gateway/internal/handler"
	"github.com/vistaro/checkout-gateway/internal/middleware"
	"github.com/vistaro/checkout-gateway/internal/queue"
	"github.com/vistaro/checkout-gateway/internal/router"
	queue_publisher "github.com/vistaro/checkout-gateway/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()
	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	be := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout, logger.Named("backend"))

	flows := checkout.NewRegistry(be, logger.Named("checkout"), checkout.Options{
		WindowSeconds: cfg.CheckoutWindowSec,
		OnSettled:     settledPublisher(cfg),
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	deps := router.Deps{
		Checkout:  handler.NewCheckoutHandler(flows, logger.Named("handler")),
		Catalog:   handler.NewCatalogHandler(be),
		Bookings:  handler.NewBookingHandler(be),
		JWTSecret: cfg.JWTSecret,
	}
	if rdb := config.NewRedisClient(); rdb != nil {
		deps.Cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		deps.RateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	} else {
		logger.Warn("redis unavailable, running without cache and rate limiting")
	}

	router.RegisterOps(e)
	router.RegisterAPI(e, deps)

	if cfg.ConsumeSettled {
		go func() {
			if err := queue.StartSettledConsumer(cfg.AMQPURL, logger.Named("consumer")); err != nil {
				logger.Warn("settled consumer stopped", zap.Error(err))
			}
		}()
	}

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// settledPublisher builds the registry hook that mirrors every terminal
// flow outcome onto the message broker. Publishing is best effort and
// runs off the settling goroutine so a slow broker cannot delay expiry
// or confirmation handling.
func settledPublisher(cfg config.Config) checkout.SettledFunc {
	if !cfg.PublishSettled {
		return nil
	}
	return func(f *checkout.Flow, reason string) {
		snap := f.Snapshot()
		ev := queue.CheckoutSettledEvent{
			FlowID:    f.ID,
			UserID:    f.UserID,
			EventID:   f.Context.EventID,
			SlotID:    f.Context.SlotID,
			SeatIDs:   f.Context.SeatIDs,
			Outcome:   string(snap.Outcome),
			Reason:    reason,
			NetTotal:  snap.Estimate.NetTotal.String(),
			SettledAt: time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = queue_publisher.PublishCheckoutSettled(ctx, cfg.AMQPURL, ev)
		}()
	}
}

// newLogger picks the zap preset for the environment: human-readable in
// dev, JSON in everything else.
func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	return logger
}
