// Package company provides the company bounded context: the tenant account
// record, its settings, and its encrypted third-party credentials.
package company

import (
	"clientbase/internal/company/handler"
	"clientbase/internal/company/repository"
	"clientbase/internal/company/service"
	apphttp "clientbase/internal/http"
	"clientbase/platform/logger"
	"clientbase/platform/secrets"
	"clientbase/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the company bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the company module with all its dependencies.
func NewModule(pool *pgxpool.Pool, store *secrets.Store, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "company"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts company settings routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/company")
	group.GET("/settings", m.handler.GetSettings)
	group.PUT("/settings", m.handler.UpdateSettings)
}
