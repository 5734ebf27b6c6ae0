package dispatch

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"clientbase/platform/logger"
)

const poolQueueSize = 256

// Validator runs a single client validation.
type Validator interface {
	ValidateAndUpdate(ctx context.Context, companyID, clientID uuid.UUID) error
}

// SweepRunner runs catch-up sweeps.
type SweepRunner interface {
	Sweep(ctx context.Context, companyID uuid.UUID) error
	SweepAll(ctx context.Context) error
}

type job func(ctx context.Context)

// Pool is a bounded in-process Dispatcher for deployments without Redis.
// Jobs run on a fixed set of workers; a full queue drops the job with a
// warning rather than blocking the caller, matching the fire-and-forget
// contract. The daily cron sweep recovers anything dropped.
type Pool struct {
	validator Validator
	sweeper   SweepRunner
	jobs      chan job
	workers   int
	log       *logger.Logger
	wg        sync.WaitGroup
}

// NewPool creates an in-process dispatcher with the given worker count.
func NewPool(validator Validator, sweeper SweepRunner, workers int, log *logger.Logger) *Pool {
	if workers < 1 {
		workers = 4
	}
	return &Pool{
		validator: validator,
		sweeper:   sweeper,
		jobs:      make(chan job, poolQueueSize),
		workers:   workers,
		log:       log,
	}
}

// Compile-time check that Pool implements Dispatcher.
var _ Dispatcher = (*Pool)(nil)

// Run starts the workers and blocks until ctx is cancelled and all queued
// jobs have drained.
func (p *Pool) Run(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}

	<-ctx.Done()
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	// Jobs run on a background context so an in-flight validation is not cut
	// off by server shutdown mid-write.
	runCtx := context.WithoutCancel(ctx)
	for {
		select {
		case j := <-p.jobs:
			j(runCtx)
		case <-ctx.Done():
			// Drain whatever is queued, then stop. The channel is never
			// closed so a late Dispatch during shutdown cannot panic.
			for {
				select {
				case j := <-p.jobs:
					j(runCtx)
				default:
					return
				}
			}
		}
	}
}

// DispatchClient schedules a single client validation.
func (p *Pool) DispatchClient(ctx context.Context, companyID, clientID uuid.UUID) error {
	p.enqueue(func(ctx context.Context) {
		if err := p.validator.ValidateAndUpdate(ctx, companyID, clientID); err != nil {
			p.log.Error("background validation failed",
				"companyID", companyID, "clientID", clientID, "error", err)
		}
	})
	return nil
}

// DispatchSweep schedules a catch-up sweep for one company.
func (p *Pool) DispatchSweep(ctx context.Context, companyID uuid.UUID) error {
	p.enqueue(func(ctx context.Context) {
		if err := p.sweeper.Sweep(ctx, companyID); err != nil {
			p.log.Error("background sweep failed", "companyID", companyID, "error", err)
		}
	})
	return nil
}

// DispatchSweepAll schedules the global sweep.
func (p *Pool) DispatchSweepAll(ctx context.Context) error {
	p.enqueue(func(ctx context.Context) {
		if err := p.sweeper.SweepAll(ctx); err != nil {
			p.log.Error("background global sweep failed", "error", err)
		}
	})
	return nil
}

func (p *Pool) enqueue(j job) {
	select {
	case p.jobs <- j:
	default:
		p.log.Warn("dispatch queue full, dropping job")
	}
}
