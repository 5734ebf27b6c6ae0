// Package surveys provides the survey bounded context: authoring, public
// submission, and result aggregation.
package surveys

import (
	apphttp "clientbase/internal/http"
	"clientbase/internal/surveys/handler"
	"clientbase/internal/surveys/repository"
	"clientbase/internal/surveys/service"
	"clientbase/platform/config"
	"clientbase/platform/logger"
	"clientbase/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the surveys bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the surveys module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.PublicConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "surveys"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts survey routes, both authenticated and public.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/surveys")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.DELETE("/:id", m.handler.Delete)
	group.GET("/:id/results", m.handler.Results)
	group.GET("/:id/qr", m.handler.QRCode)

	public := ctx.Public.Group("/surveys")
	public.GET("/:id", m.handler.GetPublic)
	public.POST("/:id/responses", m.handler.SubmitResponse)
}
