package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"budgets/internal/amqp"
	"budgets/internal/api"
	"budgets/internal/budget"
	"budgets/internal/cache"
	"budgets/internal/config"
	"budgets/internal/export"
	"budgets/internal/log"
	"budgets/internal/storage"
	"budgets/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting sync-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	// Shares the client binary's local store so protected calls can use
	// the stored credential bundle.
	store, err := storage.NewStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open local store", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout}, store, logger.WithComponent(log.ComponentAPI))
	budgets := budget.NewService(
		api.NewBudgetService(client),
		cache.NewLRUCache[api.Budget](cfg.BudgetCacheSize, cfg.BudgetCacheTTL),
		logger,
	)

	sheets, err := export.NewFromEnv(ctx, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(budgets, sheets, logger)

	// Startup pass so the sheet is current before messages arrive
	if err := syncWorker.ResyncCurrentMonth(ctx); err != nil {
		logger.Error("Startup sync failed", log.FieldError, err)
		// Keep running; the periodic pass will retry
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeBudgetChanges(gctx, syncWorker.HandleBudgetChange)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := syncWorker.ResyncCurrentMonth(gctx); err != nil {
					logger.Error("Periodic sync failed", log.FieldError, err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
