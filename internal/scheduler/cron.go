package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"clientbase/platform/config"
	"clientbase/platform/logger"
)

// Cron registers the daily global sweep on the asynq scheduler. The cron
// spec and timezone are fixed per deployment, not per company.
type Cron struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

// NewCron builds the periodic sweep scheduler.
func NewCron(cfg config.SchedulerConfig, log *logger.Logger) (*Cron, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(cfg.GetSweepTimezone())
	if err != nil {
		return nil, fmt.Errorf("invalid sweep timezone %q: %w", cfg.GetSweepTimezone(), err)
	}

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: location,
	})

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	spec := cfg.GetSweepCronSpec()
	if spec == "" {
		spec = "0 3 * * *"
	}

	if _, err := scheduler.Register(spec, NewSweepAllTask(), asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register sweep cron: %w", err)
	}

	log.Info("daily sweep registered", "cron", spec, "tz", location.String())
	return &Cron{scheduler: scheduler, log: log}, nil
}

// Run starts the scheduler until ctx is cancelled.
func (c *Cron) Run(ctx context.Context) {
	if c == nil || c.scheduler == nil {
		return
	}

	go func() {
		<-ctx.Done()
		c.scheduler.Shutdown()
	}()

	if err := c.scheduler.Run(); err != nil {
		c.log.Error("sweep scheduler stopped", "error", err)
	}
}
