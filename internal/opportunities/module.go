// Package opportunities provides the sales-pipeline domain module.
package opportunities

import (
	apphttp "salesdesk_backend/internal/http"
	"salesdesk_backend/internal/opportunities/handler"
	"salesdesk_backend/internal/opportunities/repository"
	"salesdesk_backend/internal/opportunities/service"
	"salesdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the opportunities domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new opportunities module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "opportunities"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	opportunities := ctx.Protected.Group("/opportunities")
	m.handler.RegisterRoutes(opportunities)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
