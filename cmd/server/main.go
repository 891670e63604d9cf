package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itqan-cloud/service-desk/internal/api"
	"github.com/itqan-cloud/service-desk/internal/core/service"
	"github.com/itqan-cloud/service-desk/internal/infrastructure/config"
	"github.com/itqan-cloud/service-desk/internal/infrastructure/db/mongo"
	"github.com/itqan-cloud/service-desk/internal/infrastructure/db/redis"
	"github.com/itqan-cloud/service-desk/internal/infrastructure/queue"
	"github.com/itqan-cloud/service-desk/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Durable store ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	ticketRepo := mongo.NewTicketRepository(db)
	counterRepo := mongo.NewCounterRepository(db)
	accountRepo := mongo.NewAccountRepository(db)
	referenceRepo := mongo.NewReferenceRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"tickets":  ticketRepo.EnsureIndexes,
		"cups":     counterRepo.EnsureIndexes,
		"accounts": accountRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	if err := mongo.Seed(ctx, accountRepo, referenceRepo, log); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	// --- Notification side channel ---
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() {
		_ = rdb.Close()
	}()
	notifier := redis.NewNotifier(rdb, log)

	// --- Completion write-back workers ---
	writeback := queue.NewWriteBack(cfg.Queue.WritebackWorkers, ticketRepo, log)
	writeback.Start(ctx)

	// --- Core services ---
	authService := service.NewAuthService(accountRepo, cfg.JWTSecret, 24*time.Hour)
	ticketService := service.NewTicketService(ticketRepo, referenceRepo, notifier, log)
	counterService := service.NewCounterService(counterRepo, notifier, log)
	sessions := service.NewSessionManager(ticketRepo, notifier, writeback, service.SessionConfig{
		PollInterval:   cfg.Queue.PollInterval,
		SuppressionTTL: cfg.Queue.SuppressionTTL,
	}, log)

	e := api.NewRouter(api.Deps{
		JWTSecret:      cfg.JWTSecret,
		AuthService:    authService,
		TicketService:  ticketService,
		CounterService: counterService,
		Sessions:       sessions,
		TicketRepo:     ticketRepo,
		MenuRepo:       referenceRepo,
		RoomRepo:       referenceRepo,
		Mongo:          db,
		Redis:          rdb,
		Logger:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
