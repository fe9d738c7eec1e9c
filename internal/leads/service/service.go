// Package service implements the leads use cases: intake, qualification,
// stage resolution and the read-side estimators.
package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"salesdesk_backend/internal/events"
	"salesdesk_backend/internal/leads/domain"
	"salesdesk_backend/internal/leads/followup"
	"salesdesk_backend/internal/leads/ports"
	"salesdesk_backend/internal/leads/probability"
	"salesdesk_backend/internal/leads/repository"
	"salesdesk_backend/internal/leads/scoring"
	"salesdesk_backend/internal/leads/transport"
	"salesdesk_backend/platform/apperr"
	"salesdesk_backend/platform/logger"
	"salesdesk_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Service coordinates the lead lifecycle.
type Service struct {
	repo     *repository.Repository
	assigner ports.AssignmentProvider
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new leads service.
func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// SetAssigner injects the routing port. Wired in the composition root to
// break the module cycle; assignment is skipped when unset.
func (s *Service) SetAssigner(assigner ports.AssignmentProvider) {
	s.assigner = assigner
}

// CreateLead ingests a new lead: normalizes contact data, scores it, resolves
// the opening stage and hands it to routing.
func (s *Service) CreateLead(ctx context.Context, req transport.CreateLeadRequest) (*transport.LeadResponse, error) {
	normalized := phone.NormalizeE164(req.Phone)
	if normalized == "" {
		return nil, apperr.Validation("phone number is required").WithOp("leads.create")
	}

	now := time.Now()
	lead := domain.Lead{
		ID:             uuid.New(),
		Name:           req.Name,
		Phone:          normalized,
		Email:          req.Email,
		InterestLevel:  req.InterestLevel,
		DecisionMakers: req.DecisionMakers,
		SpecificNeeds:  req.SpecificNeeds,
		PackageSeen:    req.PackageSeen,
		SignedUp:       req.SignedUp,
		Territory:      req.Territory,
		Industry:       req.Industry,
		DealSize:       req.DealSize,
		Source:         req.Source,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var criteria domain.Criteria
	if req.Criteria != nil {
		criteria = req.Criteria.ToDomain()
	}

	wf := domain.NewWorkflow(lead.ID, now)
	wf.Criteria = criteria
	wf.QualificationScore = scoring.Score(lead, criteria)

	opening := len(wf.StageHistory)
	next := domain.NextStage(lead, wf.QualificationScore, wf.CurrentStage)
	wf.ApplyStage(next, now)

	if err := s.repo.CreateLead(ctx, lead, *wf); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Name:      lead.Name,
		Phone:     lead.Phone,
		Email:     deref(lead.Email),
		Territory: lead.Territory,
		Source:    deref(lead.Source),
		Score:     wf.QualificationScore,
		Stage:     string(wf.CurrentStage),
	})
	s.publishStageEvents(ctx, lead.ID, wf.StageHistory[opening:], 0, wf.QualificationScore, uuid.Nil)

	s.route(ctx, lead)

	resp := transport.FromDomain(lead, *wf, false)
	return &resp, nil
}

// Get returns a lead with its workflow state and stage history.
func (s *Service) Get(ctx context.Context, leadID uuid.UUID) (*transport.LeadResponse, error) {
	lead, err := s.repo.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	wf, err := s.repo.GetWorkflow(ctx, leadID)
	if err != nil {
		return nil, err
	}
	resp := transport.FromDomain(lead, wf, true)
	return &resp, nil
}

// List returns a filtered, paginated page of leads.
func (s *Service) List(ctx context.Context, params transport.ListLeadsParams) (*transport.ListLeadsResponse, error) {
	if params.Stage != "" && !domain.Stage(params.Stage).Known() {
		return nil, apperr.Validation("unknown stage").WithDetails(map[string]string{"stage": params.Stage})
	}

	result, err := s.repo.List(ctx, repository.ListParams{
		Stage:     params.Stage,
		Territory: params.Territory,
		Page:      params.Page,
		PageSize:  params.PageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]transport.LeadResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, transport.FromDomain(item.Lead, item.Workflow, false))
	}
	return &transport.ListLeadsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// UpdateCriteria replaces the BANT criteria and requalifies the lead under a
// row lock, so concurrent updates to the same lead serialize.
func (s *Service) UpdateCriteria(ctx context.Context, leadID uuid.UUID, req transport.CriteriaRequest) (*transport.LeadResponse, error) {
	resp, _, err := s.requalify(ctx, leadID, func(wf *domain.Workflow) {
		wf.Criteria = req.ToDomain()
	})
	return resp, err
}

// Requalify recomputes the score and stage from the stored criteria. Used by
// the scheduler and by agents after editing lead attributes.
func (s *Service) Requalify(ctx context.Context, leadID uuid.UUID) (*transport.LeadResponse, error) {
	resp, _, err := s.requalify(ctx, leadID, nil)
	return resp, err
}

func (s *Service) requalify(ctx context.Context, leadID uuid.UUID, mutate func(*domain.Workflow)) (*transport.LeadResponse, bool, error) {
	var (
		appended []domain.StageTransition
		oldScore int
	)

	lead, wf, err := s.repo.UpdateLocked(ctx, leadID, func(lead domain.Lead, wf *domain.Workflow) ([]domain.StageTransition, error) {
		if mutate != nil {
			mutate(wf)
		}
		oldScore = wf.QualificationScore
		wf.QualificationScore = scoring.Score(lead, wf.Criteria)

		now := time.Now()
		before := len(wf.StageHistory)
		next := domain.NextStage(lead, wf.QualificationScore, wf.CurrentStage)
		wf.ApplyStage(next, now)
		wf.UpdatedAt = now

		appended = wf.StageHistory[before:]
		return appended, nil
	})
	if err != nil {
		return nil, false, err
	}

	s.publishStageEvents(ctx, leadID, appended, oldScore, wf.QualificationScore, uuid.Nil)

	resp := transport.FromDomain(lead, wf, true)
	return &resp, len(appended) > 0, nil
}

// OverrideStage moves the workflow to an explicit stage, bypassing both the
// resolver and the terminal-stage guard. Manager-only corrective action;
// actorID identifies the manager and travels on the stage-changed event.
func (s *Service) OverrideStage(ctx context.Context, leadID, actorID uuid.UUID, req transport.OverrideStageRequest) (*transport.LeadResponse, error) {
	target := domain.Stage(req.Stage)
	if !target.Known() {
		return nil, apperr.Validation("unknown stage").WithDetails(map[string]string{"stage": req.Stage})
	}

	var appended []domain.StageTransition
	lead, wf, err := s.repo.UpdateLocked(ctx, leadID, func(_ domain.Lead, wf *domain.Workflow) ([]domain.StageTransition, error) {
		now := time.Now()
		before := len(wf.StageHistory)
		wf.ForceStage(target, now)
		wf.UpdatedAt = now
		appended = wf.StageHistory[before:]
		return appended, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stage overridden", "leadId", leadID, "stage", target, "actorId", actorID)
	s.publishStageEvents(ctx, leadID, appended, wf.QualificationScore, wf.QualificationScore, actorID)

	resp := transport.FromDomain(lead, wf, true)
	return &resp, nil
}

// Probability returns the close-probability breakdown for a lead.
func (s *Service) Probability(ctx context.Context, leadID uuid.UUID) (*probability.Breakdown, error) {
	lead, err := s.repo.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	wf, err := s.repo.GetWorkflow(ctx, leadID)
	if err != nil {
		return nil, err
	}
	breakdown := probability.Estimate(wf, lead, time.Now())
	return &breakdown, nil
}

// Recommendations returns prioritized follow-up actions for a lead.
func (s *Service) Recommendations(ctx context.Context, leadID uuid.UUID) ([]followup.Recommendation, error) {
	lead, err := s.repo.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	wf, err := s.repo.GetWorkflow(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return followup.Recommend(wf, lead, time.Now()), nil
}

// RequalifyAll enqueueable batch: requalifies every lead in a non-terminal
// stage. Returns how many leads changed stage.
func (s *Service) RequalifyAll(ctx context.Context) (int, error) {
	active := []domain.Stage{domain.StageNew, domain.StageContacted, domain.StageQualified, domain.StageOpportunity}
	ids, err := s.repo.ListIDsByStages(ctx, active)
	if err != nil {
		return 0, err
	}

	// Each lead is requalified under its own row lock, so the batch can
	// fan out. Individual failures are logged, not fatal: one bad lead
	// must not abort the sweep.
	var moved atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, changed, err := s.requalify(gctx, id, nil)
			if err != nil {
				s.log.Error("requalify failed", "leadId", id, "error", err)
				return nil
			}
			if changed {
				moved.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(moved.Load()), err
	}
	return int(moved.Load()), nil
}

// SweepStale publishes a LeadWentStale event for every contacted lead that
// has not moved within the window.
func (s *Service) SweepStale(ctx context.Context, window time.Duration) (int, error) {
	cutoff := time.Now().Add(-window)
	stale, err := s.repo.ListStale(ctx, domain.StageContacted, cutoff)
	if err != nil {
		return 0, err
	}

	for _, lead := range stale {
		s.bus.Publish(ctx, events.LeadWentStale{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.LeadID,
			Stage:     string(lead.Stage),
			IdleHours: int(time.Since(lead.EnteredAt).Hours()),
		})
	}
	return len(stale), nil
}

func (s *Service) route(ctx context.Context, lead domain.Lead) {
	if s.assigner == nil {
		return
	}
	result, err := s.assigner.AssignLead(ctx, lead.ID, lead.Territory, lead.Industry, lead.DealSize)
	if err != nil {
		s.log.Error("lead routing failed", "leadId", lead.ID, "error", err)
		return
	}
	if result == nil {
		s.log.Warn("lead left unassigned", "leadId", lead.ID, "territory", lead.Territory)
	}
}

func (s *Service) publishStageEvents(ctx context.Context, leadID uuid.UUID, transitions []domain.StageTransition, oldScore, newScore int, actorID uuid.UUID) {
	for _, t := range transitions {
		if t.From == t.To {
			continue
		}
		s.bus.Publish(ctx, events.LeadStageChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    leadID,
			OldStage:  string(t.From),
			NewStage:  string(t.To),
			Manual:    actorID != uuid.Nil,
			ActorID:   actorID,
		})
		if t.To == domain.StageQualified && oldScore != newScore {
			s.bus.Publish(ctx, events.LeadQualified{
				BaseEvent: events.NewBaseEvent(),
				LeadID:    leadID,
				Score:     newScore,
				OldScore:  oldScore,
			})
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
