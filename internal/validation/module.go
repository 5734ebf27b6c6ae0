// Package validation provides the number validation bounded context: the
// lookup worker, the catch-up sweeper, and async dispatch between them.
package validation

import (
	"context"

	"clientbase/internal/clients/repository"
	companysvc "clientbase/internal/company/service"
	"clientbase/internal/events"
	apphttp "clientbase/internal/http"
	"clientbase/internal/twilio"
	"clientbase/internal/validation/dispatch"
	"clientbase/internal/validation/handler"
	"clientbase/internal/validation/lookup"
	"clientbase/internal/validation/service"
	"clientbase/internal/validation/sweeper"
	"clientbase/platform/config"
	"clientbase/platform/logger"
)

// Module is the validation bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	sweeper    *sweeper.Sweeper
	dispatcher dispatch.Dispatcher
	log        *logger.Logger
}

// NewModule creates the validation pipeline. The dispatcher is injected later
// via SetDispatcher because the asynq/in-process choice is made by the
// composition root after this module exists (the in-process pool needs the
// service and sweeper built here).
func NewModule(companies *companysvc.Service, clients repository.Repository, notifier service.Notifier, bus events.Bus, cfg config.ValidationConfig, log *logger.Logger) *Module {
	lookupClient := twilio.NewLookupClient(cfg.GetLookupTimeout(), log)
	nl := lookup.New(lookupClient, log)
	svc := service.New(companies, clients, nl, bus, notifier, log)
	sw := sweeper.New(svc, clients, companies, cfg.GetSweepPacing(), log)

	return &Module{
		service: svc,
		sweeper: sw,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "validation"
}

// Service returns the validation worker for task handlers.
func (m *Module) Service() *service.Service {
	return m.service
}

// Sweeper returns the catch-up sweeper for task handlers.
func (m *Module) Sweeper() *sweeper.Sweeper {
	return m.sweeper
}

// SetDispatcher wires the background executor and builds the HTTP handler.
func (m *Module) SetDispatcher(d dispatch.Dispatcher) {
	m.dispatcher = d
	m.handler = handler.New(d)
}

// RegisterRoutes mounts the on-demand sweep trigger.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/validation/sweep", m.handler.TriggerSweep)
}

// RegisterHandlers subscribes to roster events so every new or changed
// number gets validated without the clients module knowing how.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ClientNumberPending{}.EventName(), events.HandlerFunc(m.handlePending))
}

func (m *Module) handlePending(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ClientNumberPending)
	if !ok {
		return nil
	}
	return m.dispatcher.DispatchClient(ctx, e.CompanyID, e.ClientID)
}
