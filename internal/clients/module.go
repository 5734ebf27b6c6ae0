// Package clients provides the client roster bounded context.
package clients

import (
	"clientbase/internal/clients/handler"
	"clientbase/internal/clients/repository"
	"clientbase/internal/clients/service"
	"clientbase/internal/events"
	apphttp "clientbase/internal/http"
	"clientbase/platform/logger"
	"clientbase/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the clients bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the clients module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "clients"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for the validation pipeline and
// communications fan-out.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts client roster routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/clients")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
}
