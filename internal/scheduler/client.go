// Package scheduler runs the validation pipeline's background jobs on asynq:
// task enqueueing (Client), processing (Worker), and the daily cron (Cron).
package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"clientbase/platform/config"
)

// Client enqueues validation tasks. It implements dispatch.Dispatcher.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates an asynq task client from the Redis URL.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

// Close releases the underlying Redis connections.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// DispatchClient enqueues a single client validation.
func (c *Client) DispatchClient(ctx context.Context, companyID, clientID uuid.UUID) error {
	task, err := NewValidateClientTask(ValidateClientPayload{
		CompanyID: companyID.String(),
		ClientID:  clientID.String(),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// DispatchSweep enqueues a catch-up sweep for one company.
func (c *Client) DispatchSweep(ctx context.Context, companyID uuid.UUID) error {
	task, err := NewSweepCompanyTask(SweepCompanyPayload{CompanyID: companyID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// DispatchSweepAll enqueues the global sweep.
func (c *Client) DispatchSweepAll(ctx context.Context) error {
	_, err := c.client.EnqueueContext(ctx, NewSweepAllTask(), asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
