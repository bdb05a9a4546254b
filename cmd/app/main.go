// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vk-ticket-bot/internal/application"
	"vk-ticket-bot/internal/config"
	"vk-ticket-bot/internal/domain/ports/repository"
	sqlitedb "vk-ticket-bot/internal/infra/db/sqlite"
	httpops "vk-ticket-bot/internal/infra/http"
	"vk-ticket-bot/internal/infra/logging"
	"vk-ticket-bot/internal/infra/memstate"
	"vk-ticket-bot/internal/infra/metrics"
	red "vk-ticket-bot/internal/infra/redis"
	"vk-ticket-bot/internal/infra/sched"
	"vk-ticket-bot/internal/infra/venue"
	"vk-ticket-bot/internal/infra/vk"
	"vk-ticket-bot/internal/infra/worker"
	"vk-ticket-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- SQLite ----
	db, err := sqlitedb.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("sqlite")
	}
	defer db.Close()

	commandRepo, err := sqlitedb.NewCommandRepo(db, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("command repo")
	}
	userRepo := sqlitedb.NewUserRepo(db, logger)

	// ---- Conversation state: Redis when configured, in-memory otherwise ----
	var states repository.StateRepository
	var flood application.FloodLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		states = red.NewStateRepo(redisClient, cfg.Redis.StateTTL)
		flood = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set; conversation state is in-memory and flood control is off")
		states = memstate.New()
	}

	// ---- Adapters ----
	vkClient := vk.NewClient(&cfg.VK, logger)
	venueClient := venue.NewClient(&cfg.Venue, logger)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, logger)
	adminUC := usecase.NewAdminUseCase(userUC, cfg.VK.AdminIDs, logger)
	dialogUC := usecase.NewDialogUseCase(states, commandRepo, venueClient, vkClient, adminUC, logger)

	// ---- Background workers ----
	pool := worker.NewPool(cfg.VK.Workers, logger)
	pool.Start(ctx)

	presence := sched.NewPresenceWorker(time.Minute, 5*time.Minute, userRepo, logger)
	go func() {
		if err := presence.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("presence worker stopped")
		}
	}()

	// ---- Ops HTTP ----
	opsServer := httpops.NewServer(&cfg.Ops, logger)
	go func() {
		if err := opsServer.Start(); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("ops server stopped")
		}
	}()

	// ---- Dispatcher + Long Poll ----
	dispatcher := application.NewDispatcher(
		dialogUC, userUC, vkClient, pool,
		flood, red.SenderKey, cfg.Flood.MaxPerMinute, logger)

	poller := vk.NewLongPoller(vkClient, dispatcher, cfg.VK.Workers, logger)
	go func() {
		if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("long poll stopped")
			cancel()
		}
	}()

	logger.Info().Int64("group_id", cfg.VK.GroupID).Msg("bot started")

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("ops server shutdown")
	}
	pool.Stop()
	logger.Info().Msg("bye")
}
