// Package leads provides the lead read surface and activity timeline.
package leads

import (
	apphttp "salesdesk_backend/internal/http"
	"salesdesk_backend/internal/leads/handler"
	"salesdesk_backend/internal/leads/repository"
	"salesdesk_backend/internal/leads/service"
	"salesdesk_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the leads domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new leads module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leads)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
