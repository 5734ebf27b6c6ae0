// Package sweeper implements the catch-up sweep that revalidates clients
// stuck in Pending: numbers added before credentials were configured, or
// left behind by crashed workers.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	clientrepo "clientbase/internal/clients/repository"
	"clientbase/platform/logger"
)

// Validator runs a single client validation.
type Validator interface {
	ValidateAndUpdate(ctx context.Context, companyID, clientID uuid.UUID) error
}

// PendingSource lists and re-checks pending clients.
type PendingSource interface {
	ListPendingValidation(ctx context.Context, companyID uuid.UUID) ([]clientrepo.PendingClient, error)
	NumberStatus(ctx context.Context, companyID, id uuid.UUID) (string, error)
}

// CompanySource lists company ids for the global sweep.
type CompanySource interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Sweeper paces catch-up validations and guarantees at most one concurrent
// sweep per company.
type Sweeper struct {
	validator Validator
	clients   PendingSource
	companies CompanySource
	pacing    time.Duration
	log       *logger.Logger

	mu   sync.Mutex
	busy map[uuid.UUID]bool
}

// New creates a sweeper. pacing is the minimum interval between lookup calls
// within one company sweep.
func New(validator Validator, clients PendingSource, companies CompanySource, pacing time.Duration, log *logger.Logger) *Sweeper {
	if pacing <= 0 {
		pacing = 500 * time.Millisecond
	}
	return &Sweeper{
		validator: validator,
		clients:   clients,
		companies: companies,
		pacing:    pacing,
		log:       log,
		busy:      make(map[uuid.UUID]bool),
	}
}

// Sweep validates every pending client of one company. An overlapping sweep
// for the same company is dropped, not queued: the running sweep will pick
// up whatever is still pending, and the daily cron catches the rest.
func (s *Sweeper) Sweep(ctx context.Context, companyID uuid.UUID) error {
	if !s.acquire(companyID) {
		s.log.Info("sweep already running, dropping", "companyID", companyID)
		return nil
	}
	defer s.release(companyID)

	pending, err := s.clients.ListPendingValidation(ctx, companyID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	s.log.Info("sweep started", "companyID", companyID, "pending", len(pending))

	// The lookup API is rate limited per account; one call per pacing interval.
	limiter := rate.NewLimiter(rate.Every(s.pacing), 1)

	swept := 0
	for _, pc := range pending {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		// The roster may have changed since the listing. Re-read the status
		// and skip anything a direct validation already settled.
		status, err := s.clients.NumberStatus(ctx, companyID, pc.ID)
		if err != nil {
			continue
		}
		if status != clientrepo.NumberStatusPending {
			continue
		}

		if err := s.validator.ValidateAndUpdate(ctx, companyID, pc.ID); err != nil {
			s.log.Error("sweep validation failed",
				"companyID", companyID, "clientID", pc.ID, "error", err)
			continue
		}
		swept++
	}

	s.log.Info("sweep finished", "companyID", companyID, "swept", swept)
	return nil
}

// SweepAll sweeps every company concurrently. Companies do not share lookup
// accounts, so there is no cross-company serialization.
func (s *Sweeper) SweepAll(ctx context.Context) error {
	ids, err := s.companies.ListIDs(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		companyID := id
		g.Go(func() error {
			if err := s.Sweep(gctx, companyID); err != nil {
				s.log.Error("company sweep failed", "companyID", companyID, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Sweeper) acquire(companyID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[companyID] {
		return false
	}
	s.busy[companyID] = true
	return true
}

func (s *Sweeper) release(companyID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, companyID)
}
