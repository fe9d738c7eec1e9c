// Package leads provides the lead lifecycle domain module: intake,
// qualification scoring, stage resolution, probability estimation and
// follow-up recommendations.
package leads

import (
	"salesdesk_backend/internal/events"
	apphttp "salesdesk_backend/internal/http"
	"salesdesk_backend/internal/leads/handler"
	"salesdesk_backend/internal/leads/ports"
	"salesdesk_backend/internal/leads/repository"
	"salesdesk_backend/internal/leads/service"
	"salesdesk_backend/platform/logger"
	"salesdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the leads domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new leads module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use (scheduler, adapters).
func (m *Module) Service() *service.Service {
	return m.service
}

// SetAssigner injects the routing port. Called from the composition root
// after the routing module exists.
func (m *Module) SetAssigner(assigner ports.AssignmentProvider) {
	m.service.SetAssigner(assigner)
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leads)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
