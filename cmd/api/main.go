// Command api serves the LearnCraft marketplace HTTP API.
//
// @title                       LearnCraft API
// @version                     1.0
// @description                 Course marketplace: catalog, moderation, assignments, cart and checkout.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learncraft/learncraft-api/internal/api"
	"github.com/learncraft/learncraft-api/internal/core/ports"
	"github.com/learncraft/learncraft-api/internal/core/service"
	"github.com/learncraft/learncraft-api/internal/infrastructure/config"
	"github.com/learncraft/learncraft-api/internal/infrastructure/db/mongo"
	"github.com/learncraft/learncraft-api/internal/infrastructure/db/redis"
	"github.com/learncraft/learncraft-api/internal/infrastructure/http/handlers"
	"github.com/learncraft/learncraft-api/internal/infrastructure/payment"
	"github.com/learncraft/learncraft-api/internal/infrastructure/queue"
	"github.com/learncraft/learncraft-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "learncraft-api",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("application error")
	}
	log.Info().Msg("application stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	checks := map[string]handlers.Pinger{"mongo": handlers.MongoPinger(db)}

	var lock ports.CheckoutLocker
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer closeRedis(rdb, log)
		lock = redis.NewCheckoutLock(rdb, cfg.Checkout.LockTTL)
		checks["redis"] = handlers.RedisPinger(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected, checkout lock enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, checkout relies on the enrollment unique index only")
	}

	var processor ports.PaymentProcessor
	if cfg.Stripe.SecretKey != "" {
		processor = payment.NewStripeProcessor(cfg.Stripe.SecretKey)
	} else {
		log.Warn().Msg("STRIPE_SECRET_KEY not set, payment intents are disabled")
	}

	// --- Repositories ---
	users := mongo.NewUserRepository(db)
	classes := mongo.NewClassRepository(db)
	teachers := mongo.NewTeacherRepository(db)
	assignments := mongo.NewAssignmentRepository(db)
	submissions := mongo.NewSubmissionRepository(db)
	carts := mongo.NewCartRepository(db)
	enrollments := mongo.NewEnrollmentRepository(db)
	payments := mongo.NewPaymentRepository(db)
	feedback := mongo.NewFeedbackRepository(db)
	tx := mongo.NewTxRunner(client, cfg.Mongo.Transactions)

	// --- Services ---
	checkout := service.NewCheckoutService(classes, enrollments, payments, carts, tx, lock, logger.Component(log, "checkout"))
	dispatcher := queue.NewDispatcher(cfg.Checkout.Workers, cfg.Checkout.QueueSize, checkout, logger.Component(log, "dispatcher"))
	// Workers outlive the signal so requests drained during shutdown still complete.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	e := api.NewRouter(api.Dependencies{
		Auth:         service.NewAuthService(users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Users:        service.NewUserService(users, log),
		Catalog:      service.NewCatalogService(classes, log),
		Teachers:     service.NewTeacherService(teachers, log),
		Assignments:  service.NewAssignmentService(classes, assignments, submissions, log),
		Carts:        service.NewCartService(carts, log),
		Enrollments:  service.NewEnrollmentService(enrollments),
		Payments:     service.NewPaymentService(processor, payments, cfg.Stripe.Currency, log),
		Checkout:     dispatcher,
		Feedback:     service.NewFeedbackService(feedback, log),
		HealthChecks: checks,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       logger.Component(log, "http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("transactions", tx.Transactional()).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	stopWorkers()
	return nil
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}
