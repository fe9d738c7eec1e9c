// Package service implements the routing use cases: roster management and
// lead assignment through the rule engine.
package service

import (
	"context"
	"fmt"
	"time"

	"salesdesk_backend/internal/events"
	"salesdesk_backend/internal/routing/domain"
	"salesdesk_backend/internal/routing/engine"
	"salesdesk_backend/internal/routing/repository"
	"salesdesk_backend/internal/routing/transport"
	"salesdesk_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Service coordinates assignment decisions and roster state.
type Service struct {
	repo  *repository.Repository
	graph domain.TerritoryGraph
	bus   events.Bus
	log   *logger.Logger
	cache *rosterCache
}

// New creates a new routing service. cache may be nil, in which case every
// roster read goes to the database.
func New(repo *repository.Repository, graph domain.TerritoryGraph, bus events.Bus, log *logger.Logger, cache *redis.Client) *Service {
	return &Service{repo: repo, graph: graph, bus: bus, log: log, cache: newRosterCache(cache, log)}
}

// ── Roster ────────────────────────────────────────────────────────────────────

// CreateRep registers a new sales rep.
func (s *Service) CreateRep(ctx context.Context, req transport.CreateRepRequest) (*transport.RepResponse, error) {
	rep := domain.SalesRep{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Territories:  req.Territories,
		Availability: domain.Availability(req.Availability),
		MaxCapacity:  req.MaxCapacity,
		Performance: domain.Performance{
			ConversionRate: req.ConversionRate,
			AvgDealSize:    req.AvgDealSize,
		},
		Specializations: req.Specializations,
	}

	if err := s.repo.CreateRep(ctx, rep); err != nil {
		return nil, err
	}
	s.invalidateRoster(ctx)

	resp := transport.FromRep(rep)
	return &resp, nil
}

// UpdateRep applies partial updates to a rep's routing attributes.
func (s *Service) UpdateRep(ctx context.Context, id uuid.UUID, req transport.UpdateRepRequest) (*transport.RepResponse, error) {
	rep, err := s.repo.GetRep(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Territories != nil {
		rep.Territories = req.Territories
	}
	if req.Availability != nil {
		rep.Availability = domain.Availability(*req.Availability)
	}
	if req.MaxCapacity != nil {
		rep.MaxCapacity = *req.MaxCapacity
	}
	if req.CurrentLoad != nil {
		rep.CurrentLoad = *req.CurrentLoad
	}
	if req.Specializations != nil {
		rep.Specializations = req.Specializations
	}
	if req.ConversionRate != nil {
		rep.Performance.ConversionRate = *req.ConversionRate
	}
	if req.AvgDealSize != nil {
		rep.Performance.AvgDealSize = *req.AvgDealSize
	}

	if err := s.repo.UpdateRep(ctx, rep); err != nil {
		return nil, err
	}
	s.invalidateRoster(ctx)

	resp := transport.FromRep(rep)
	return &resp, nil
}

// GetRep returns a single rep.
func (s *Service) GetRep(ctx context.Context, id uuid.UUID) (*transport.RepResponse, error) {
	rep, err := s.repo.GetRep(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := transport.FromRep(rep)
	return &resp, nil
}

// ListReps returns the roster.
func (s *Service) ListReps(ctx context.Context) ([]transport.RepResponse, error) {
	reps, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.RepResponse, 0, len(reps))
	for _, rep := range reps {
		out = append(out, transport.FromRep(rep))
	}
	return out, nil
}

// ListRules returns the active rule chain in evaluation order.
func (s *Service) ListRules(ctx context.Context) ([]transport.RuleResponse, error) {
	rules, err := s.rules(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.RuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, transport.RuleResponse{
			ID:          rule.ID,
			Name:        rule.Name,
			Description: rule.Description,
			Priority:    rule.Priority,
			Kind:        string(rule.Kind),
			MinDealSize: rule.MinDealSize,
			Enabled:     true,
		})
	}
	return out, nil
}

// ── Assignment ────────────────────────────────────────────────────────────────

// AssignLead runs the engine for a real lead, records the winning assignment
// and publishes the outcome. A nil assignment is a normal outcome: the lead
// stays unassigned and a LeadUnrouted event is published instead.
func (s *Service) AssignLead(ctx context.Context, leadID uuid.UUID, territory, industry string, dealSize float64) (*domain.Assignment, error) {
	profile := domain.LeadProfile{LeadID: leadID, Territory: territory, Industry: industry, DealSize: dealSize}

	assignment, err := s.run(ctx, profile)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		s.bus.Publish(ctx, events.LeadUnrouted{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    leadID,
			Territory: territory,
		})
		return nil, nil
	}

	if err := s.repo.RecordAssignment(ctx, *assignment); err != nil {
		return nil, fmt.Errorf("record assignment: %w", err)
	}
	s.invalidateRoster(ctx)

	repEmail := ""
	if rep, err := s.repo.GetRep(ctx, assignment.AssignedTo); err == nil {
		repEmail = rep.Email
	}
	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		RepID:     assignment.AssignedTo,
		RepEmail:  repEmail,
		Territory: assignment.Territory,
		Reason:    assignment.Reason,
	})

	return assignment, nil
}

// Preview runs the engine for a hypothetical lead without recording anything.
func (s *Service) Preview(ctx context.Context, req transport.PreviewRequest) (*transport.AssignmentResponse, error) {
	profile := domain.LeadProfile{Territory: req.Territory, Industry: req.Industry, DealSize: req.DealSize}

	assignment, err := s.run(ctx, profile)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, nil
	}
	resp := transport.FromAssignment(*assignment)
	return &resp, nil
}

// GetAssignment returns the latest recorded assignment for a lead.
func (s *Service) GetAssignment(ctx context.Context, leadID uuid.UUID) (*transport.AssignmentResponse, error) {
	assignment, err := s.repo.GetAssignment(ctx, leadID)
	if err != nil {
		return nil, err
	}
	resp := transport.FromAssignment(assignment)
	return &resp, nil
}

func (s *Service) run(ctx context.Context, profile domain.LeadProfile) (*domain.Assignment, error) {
	reps, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.rules(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Assign(profile, reps, rules, s.graph, time.Now()), nil
}

func (s *Service) rules(ctx context.Context) ([]domain.Rule, error) {
	rules, err := s.repo.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	// An empty rule table would silently disable routing; fall back to the
	// built-in chain instead.
	if len(rules) == 0 {
		return domain.DefaultRules(), nil
	}
	return rules, nil
}

// roster reads the rep roster through the cache. Cache failures degrade to a
// database read; they are logged, never surfaced.
func (s *Service) roster(ctx context.Context) ([]domain.SalesRep, error) {
	if reps, ok := s.cache.get(ctx); ok {
		return reps, nil
	}

	reps, err := s.repo.ListReps(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, reps)
	return reps, nil
}

func (s *Service) invalidateRoster(ctx context.Context) {
	s.cache.invalidate(ctx)
}
