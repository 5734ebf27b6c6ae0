package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"clientbase/internal/validation/service"
	"clientbase/internal/validation/sweeper"
	"clientbase/platform/config"
	"clientbase/platform/logger"
)

// Worker processes validation tasks from the asynq queue.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	validator *service.Service
	sweeper   *sweeper.Sweeper
	log       *logger.Logger
}

// NewWorker creates the asynq server and registers the validation handlers.
func NewWorker(cfg config.SchedulerConfig, validator *service.Service, sw *sweeper.Sweeper, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		validator: validator,
		sweeper:   sw,
		log:       log,
	}

	mux.HandleFunc(TaskValidateClient, w.handleValidateClient)
	mux.HandleFunc(TaskSweepCompany, w.handleSweepCompany)
	mux.HandleFunc(TaskSweepAll, w.handleSweepAll)

	return w, nil
}

// Run serves tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("validation worker stopped", "error", err)
	}
}

func (w *Worker) handleValidateClient(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseValidateClientPayload(task)
	if err != nil {
		return err
	}

	companyID, err := uuid.Parse(payload.CompanyID)
	if err != nil {
		return err
	}

	clientID, err := uuid.Parse(payload.ClientID)
	if err != nil {
		return err
	}

	return w.validator.ValidateAndUpdate(ctx, companyID, clientID)
}

func (w *Worker) handleSweepCompany(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSweepCompanyPayload(task)
	if err != nil {
		return err
	}

	companyID, err := uuid.Parse(payload.CompanyID)
	if err != nil {
		return err
	}

	return w.sweeper.Sweep(ctx, companyID)
}

func (w *Worker) handleSweepAll(ctx context.Context, _ *asynq.Task) error {
	return w.sweeper.SweepAll(ctx)
}
