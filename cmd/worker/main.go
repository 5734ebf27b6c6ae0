// Command worker runs the asynq task processor and the daily sweep cron.
// It handles validation tasks enqueued by the API and schedules the
// catch-up sweep across all companies.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	clientrepo "clientbase/internal/clients/repository"
	companyrepo "clientbase/internal/company/repository"
	companysvc "clientbase/internal/company/service"
	"clientbase/internal/events"
	"clientbase/internal/scheduler"
	"clientbase/internal/twilio"
	"clientbase/internal/validation/lookup"
	validationsvc "clientbase/internal/validation/service"
	"clientbase/internal/validation/sweeper"
	"clientbase/platform/config"
	"clientbase/platform/db"
	"clientbase/platform/logger"
	"clientbase/platform/secrets"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	store, err := secrets.NewStore(cfg.GetCredentialSecretKey())
	if err != nil {
		log.Error("failed to initialize credential store", "error", err)
		panic("failed to initialize credential store: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)

	companies := companysvc.New(companyrepo.New(pool), store, log)
	clients := clientrepo.New(pool)

	// No SSE notifier here; dashboard pushes only work from the API process.
	lookupClient := lookup.New(twilio.NewLookupClient(cfg.GetLookupTimeout(), log), log)
	validator := validationsvc.New(companies, clients, lookupClient, eventBus, nil, log)
	sw := sweeper.New(validator, clients, companies, cfg.GetSweepPacing(), log)

	worker, err := scheduler.NewWorker(cfg, validator, sw, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	cron, err := scheduler.NewCron(cfg, log)
	if err != nil {
		log.Error("failed to initialize cron", "error", err)
		panic("failed to initialize cron: " + err.Error())
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		cron.Run(ctx)
	}()

	wg.Wait()
	eventBus.Wait()
	log.Info("worker stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
