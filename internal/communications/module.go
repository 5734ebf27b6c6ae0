// Package communications provides the broadcast bounded context: sending a
// message or survey link to a filtered set of roster clients.
package communications

import (
	"clientbase/internal/communications/handler"
	"clientbase/internal/communications/service"
	"clientbase/internal/email"
	"clientbase/internal/events"
	apphttp "clientbase/internal/http"
	"clientbase/platform/logger"
	"clientbase/platform/validator"
)

// Module is the communications bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the communications module.
func NewModule(recipients service.RecipientSource, companies service.CompanySource, surveys service.SurveyLinker, whatsapp service.WhatsappSender, mailer email.Sender, bus events.Bus, notifier service.Notifier, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(recipients, companies, surveys, whatsapp, mailer, bus, notifier, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "communications"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the broadcast route.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/communications/send", m.handler.Send)
}
