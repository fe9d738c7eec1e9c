// Package routing provides the lead routing domain module: the sales rep
// roster, the rule chain and the assignment engine.
package routing

import (
	"salesdesk_backend/internal/events"
	apphttp "salesdesk_backend/internal/http"
	"salesdesk_backend/internal/routing/domain"
	"salesdesk_backend/internal/routing/handler"
	"salesdesk_backend/internal/routing/repository"
	"salesdesk_backend/internal/routing/service"
	"salesdesk_backend/platform/logger"
	"salesdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module represents the routing domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new routing module with all dependencies wired.
// cache may be nil when Redis is not configured.
func NewModule(pool *pgxpool.Pool, graph domain.TerritoryGraph, bus events.Bus, val *validator.Validator, log *logger.Logger, cache *redis.Client) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, graph, bus, log, cache)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "routing"
}

// Service returns the service layer for external use (adapters).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	routing := ctx.Protected.Group("/routing")
	m.handler.RegisterRoutes(routing)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
