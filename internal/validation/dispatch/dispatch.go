// Package dispatch decouples validation triggers from execution. The HTTP
// request that creates a client never waits for the lookup call.
package dispatch

import (
	"context"

	"github.com/google/uuid"
)

// Dispatcher hands validation work to a background executor. Implementations:
// the asynq scheduler client (multi-process, Redis-backed) and the in-process
// Pool below for single-process deployments.
type Dispatcher interface {
	// DispatchClient schedules a single client validation.
	DispatchClient(ctx context.Context, companyID, clientID uuid.UUID) error
	// DispatchSweep schedules a catch-up sweep for one company.
	DispatchSweep(ctx context.Context, companyID uuid.UUID) error
	// DispatchSweepAll schedules the global daily sweep.
	DispatchSweepAll(ctx context.Context) error
}
