// Package quotations provides the quotation lifecycle and dispatch module.
package quotations

import (
	apphttp "salesdesk_backend/internal/http"
	"salesdesk_backend/internal/quotations/handler"
	"salesdesk_backend/internal/quotations/repository"
	"salesdesk_backend/internal/quotations/service"
	"salesdesk_backend/internal/quotations/storageops"
	"salesdesk_backend/platform/events"
	"salesdesk_backend/platform/logger"
	"salesdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotations domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new quotations module with all dependencies wired.
// The mailer and whatsapp composer come from the caller so the module stays
// decoupled from delivery infrastructure.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger, bus events.Bus, mailer service.DispatchMailer, whatsapp service.WhatsAppComposer) *Module {
	repo := repository.New(pool)
	ops := storageops.New(pool)
	svc := service.New(repo, ops, mailer, whatsapp, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "quotations"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	quotations := ctx.Protected.Group("/quotations")
	m.handler.RegisterRoutes(quotations)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
