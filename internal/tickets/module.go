// Package tickets provides the support-ticket read surface.
package tickets

import (
	apphttp "salesdesk_backend/internal/http"
	"salesdesk_backend/internal/tickets/handler"
	"salesdesk_backend/internal/tickets/repository"
	"salesdesk_backend/internal/tickets/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the tickets domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new tickets module with all dependencies wired.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "tickets"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	tickets := ctx.Protected.Group("/tickets")
	m.handler.RegisterRoutes(tickets)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
