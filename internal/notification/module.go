// Package notification provides the real-time push bounded context.
package notification

import (
	apphttp "clientbase/internal/http"
	"clientbase/internal/notification/sse"
	"clientbase/platform/logger"
)

// Module is the notification bounded context module implementing http.Module.
type Module struct {
	sse *sse.Service
}

// NewModule creates the notification module.
func NewModule(log *logger.Logger) *Module {
	return &Module{sse: sse.New(log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// SSE returns the event push service for other modules.
func (m *Module) SSE() *sse.Service {
	return m.sse
}

// Close drops all open streams.
func (m *Module) Close() {
	m.sse.Close()
}

// RegisterRoutes mounts the event stream. The auth middleware accepts the
// token as a query parameter because EventSource cannot set headers.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/notifications/stream", m.sse.Handler())
}
