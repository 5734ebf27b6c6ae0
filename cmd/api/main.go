package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clientbase/internal/auth"
	"clientbase/internal/clients"
	"clientbase/internal/communications"
	"clientbase/internal/company"
	"clientbase/internal/email"
	"clientbase/internal/events"
	apphttp "clientbase/internal/http"
	"clientbase/internal/http/router"
	"clientbase/internal/notification"
	"clientbase/internal/scheduler"
	"clientbase/internal/surveys"
	"clientbase/internal/twilio"
	"clientbase/internal/validation"
	"clientbase/internal/validation/dispatch"
	"clientbase/migrations"
	"clientbase/platform/config"
	"clientbase/platform/db"
	"clientbase/platform/logger"
	"clientbase/platform/secrets"
	"clientbase/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	companyModule := company.NewModule(pool, store, val, log)
	authModule := auth.NewModule(pool, companyModule.Service(), cfg, eventBus, log, val)
	clientsModule := clients.NewModule(pool, eventBus, val, log)

	// SSE notification module pushes validation and broadcast outcomes to
	// connected dashboards
	notificationModule := notification.NewModule(log)
	defer notificationModule.Close()

	validationModule := validation.NewModule(
		companyModule.Service(),
		clientsModule.Repository(),
		notificationModule.SSE(),
		eventBus,
		cfg,
		log,
	)
	closeDispatcher := initDispatcher(ctx, cfg, validationModule, log)
	if closeDispatcher != nil {
		defer closeDispatcher()
	}
	validationModule.RegisterHandlers(eventBus)

	surveysModule := surveys.NewModule(pool, cfg, val, log)

	communicationsModule := communications.NewModule(
		clientsModule.Repository(),
		companyModule.Service(),
		surveysModule.Service(),
		twilio.NewMessagesClient(log),
		email.NewGmailSender(),
		eventBus,
		notificationModule.SSE(),
		val,
		log,
	)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			companyModule,
			clientsModule,
			notificationModule,
			validationModule,
			surveysModule,
			communicationsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initDispatcher picks the task dispatcher for validation work. With Redis
// configured tasks go through asynq so the worker binary processes them;
// without Redis an in-process pool keeps single-binary deployments working.
func initDispatcher(ctx context.Context, cfg *config.Config, vm *validation.Module, log *logger.Logger) func() {
	if cfg.GetRedisURL() != "" {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize task queue client", "error", err)
			panic("failed to initialize task queue client: " + err.Error())
		}
		vm.SetDispatcher(client)
		log.Info("validation dispatch via task queue", "queue", cfg.GetAsynqQueueName())
		return func() { _ = client.Close() }
	}

	pool := dispatch.NewPool(vm.Service(), vm.Sweeper(), cfg.GetDispatchWorkers(), log)
	go pool.Run(ctx)
	vm.SetDispatcher(pool)
	log.Warn("REDIS_URL not configured; validation runs on in-process workers", "workers", cfg.GetDispatchWorkers())
	return nil
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
