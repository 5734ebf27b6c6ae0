package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"clientbase/platform/logger"
)

type fakeValidator struct {
	mu    sync.Mutex
	calls []uuid.UUID
	done  chan struct{}
}

func (f *fakeValidator) ValidateAndUpdate(_ context.Context, _, clientID uuid.UUID) error {
	f.mu.Lock()
	f.calls = append(f.calls, clientID)
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
	return nil
}

type fakeSweeper struct {
	mu        sync.Mutex
	sweeps    []uuid.UUID
	sweepAlls int
	done      chan struct{}
}

func (f *fakeSweeper) Sweep(_ context.Context, companyID uuid.UUID) error {
	f.mu.Lock()
	f.sweeps = append(f.sweeps, companyID)
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
	return nil
}

func (f *fakeSweeper) SweepAll(_ context.Context) error {
	f.mu.Lock()
	f.sweepAlls++
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
	return nil
}

func waitSignal(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
}

func TestPool_RunsDispatchedJobs(t *testing.T) {
	validator := &fakeValidator{done: make(chan struct{}, 1)}
	sweeper := &fakeSweeper{done: make(chan struct{}, 2)}
	pool := NewPool(validator, sweeper, 2, logger.New("test"))

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(runDone)
	}()

	clientID := uuid.New()
	if err := pool.DispatchClient(context.Background(), uuid.New(), clientID); err != nil {
		t.Fatalf("DispatchClient: %v", err)
	}
	waitSignal(t, validator.done)

	if err := pool.DispatchSweep(context.Background(), uuid.New()); err != nil {
		t.Fatalf("DispatchSweep: %v", err)
	}
	waitSignal(t, sweeper.done)

	if err := pool.DispatchSweepAll(context.Background()); err != nil {
		t.Fatalf("DispatchSweepAll: %v", err)
	}
	waitSignal(t, sweeper.done)

	validator.mu.Lock()
	if len(validator.calls) != 1 || validator.calls[0] != clientID {
		t.Fatalf("expected one validation for %s, got %v", clientID, validator.calls)
	}
	validator.mu.Unlock()

	sweeper.mu.Lock()
	if len(sweeper.sweeps) != 1 || sweeper.sweepAlls != 1 {
		t.Fatalf("expected one sweep and one global sweep, got %d/%d", len(sweeper.sweeps), sweeper.sweepAlls)
	}
	sweeper.mu.Unlock()

	cancel()
	select {
	case <-runDone:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop after cancel")
	}
}

func TestPool_DrainsQueueOnShutdown(t *testing.T) {
	validator := &fakeValidator{}
	sweeper := &fakeSweeper{}
	pool := NewPool(validator, sweeper, 1, logger.New("test"))

	// Queue before any worker starts, then cancel immediately; the worker
	// must still drain what was accepted.
	for i := 0; i < 3; i++ {
		if err := pool.DispatchClient(context.Background(), uuid.New(), uuid.New()); err != nil {
			t.Fatalf("DispatchClient: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool.Run(ctx)

	validator.mu.Lock()
	defer validator.mu.Unlock()
	if len(validator.calls) != 3 {
		t.Fatalf("expected 3 drained validations, got %d", len(validator.calls))
	}
}

func TestPool_DispatchAfterShutdownDoesNotPanic(t *testing.T) {
	pool := NewPool(&fakeValidator{}, &fakeSweeper{}, 1, logger.New("test"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool.Run(ctx)

	if err := pool.DispatchClient(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("DispatchClient after shutdown: %v", err)
	}
}
