// Package repository provides database access for leads and their workflows.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salesdesk_backend/internal/leads/domain"
	"salesdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leadNotFoundMsg = "lead not found"

// ListParams contains parameters for listing leads.
type ListParams struct {
	Stage     string
	Territory string
	Page      int
	PageSize  int
}

// LeadWithWorkflow pairs a lead with its workflow state for list views.
type LeadWithWorkflow struct {
	Lead     domain.Lead
	Workflow domain.Workflow
}

// ListResult contains the paginated result of listing leads.
type ListResult struct {
	Items      []LeadWithWorkflow
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// StaleLead is a contacted lead that has not moved past the staleness window.
type StaleLead struct {
	LeadID    uuid.UUID
	Stage     domain.Stage
	EnteredAt time.Time
}

// Repository provides database operations for leads.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateLead inserts the lead, its workflow and the opening history entry
// in a single transaction.
func (r *Repository) CreateLead(ctx context.Context, lead domain.Lead, wf domain.Workflow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	leadQuery := `
		INSERT INTO leads (
			id, name, phone, email, interest_level, decision_makers, specific_needs,
			package_seen, signed_up, territory, industry, deal_size, source,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	if _, err := tx.Exec(ctx, leadQuery,
		lead.ID, lead.Name, lead.Phone, lead.Email, lead.InterestLevel,
		lead.DecisionMakers, lead.SpecificNeeds, lead.PackageSeen, lead.SignedUp,
		lead.Territory, lead.Industry, lead.DealSize, lead.Source,
		lead.CreatedAt, lead.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}

	if err := insertWorkflow(ctx, tx, wf); err != nil {
		return err
	}
	if err := insertTransitions(ctx, tx, wf.LeadID, wf.StageHistory); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetLead fetches a single lead by ID.
func (r *Repository) GetLead(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	query := `
		SELECT id, name, phone, email, interest_level, decision_makers, specific_needs,
		       package_seen, signed_up, territory, industry, deal_size, source,
		       created_at, updated_at
		FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return domain.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// GetWorkflow fetches the workflow and full stage history for a lead.
func (r *Repository) GetWorkflow(ctx context.Context, leadID uuid.UUID) (domain.Workflow, error) {
	wf, err := r.scanWorkflowRow(r.pool.QueryRow(ctx, workflowSelect+` WHERE lead_id = $1`, leadID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Workflow{}, apperr.NotFound(leadNotFoundMsg)
		}
		return domain.Workflow{}, fmt.Errorf("get workflow: %w", err)
	}

	history, err := r.loadHistory(ctx, r.pool, leadID)
	if err != nil {
		return domain.Workflow{}, err
	}
	wf.StageHistory = history
	return wf, nil
}

// UpdateLocked runs fn against the lead and its workflow under a row lock so
// concurrent requalifications of the same lead serialize. fn returns the stage
// transitions that were appended during the mutation; only those are inserted
// into the history table.
func (r *Repository) UpdateLocked(
	ctx context.Context,
	leadID uuid.UUID,
	fn func(lead domain.Lead, wf *domain.Workflow) ([]domain.StageTransition, error),
) (domain.Lead, domain.Workflow, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Lead{}, domain.Workflow{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	wf, err := r.scanWorkflowRow(tx.QueryRow(ctx, workflowSelect+` WHERE lead_id = $1 FOR UPDATE`, leadID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, domain.Workflow{}, apperr.NotFound(leadNotFoundMsg)
		}
		return domain.Lead{}, domain.Workflow{}, fmt.Errorf("lock workflow: %w", err)
	}

	history, err := r.loadHistory(ctx, tx, leadID)
	if err != nil {
		return domain.Lead{}, domain.Workflow{}, err
	}
	wf.StageHistory = history

	leadQuery := `
		SELECT id, name, phone, email, interest_level, decision_makers, specific_needs,
		       package_seen, signed_up, territory, industry, deal_size, source,
		       created_at, updated_at
		FROM leads WHERE id = $1`
	lead, err := scanLead(tx.QueryRow(ctx, leadQuery, leadID))
	if err != nil {
		return domain.Lead{}, domain.Workflow{}, fmt.Errorf("get lead: %w", err)
	}

	appended, err := fn(lead, &wf)
	if err != nil {
		return domain.Lead{}, domain.Workflow{}, err
	}

	updateQuery := `
		UPDATE lead_workflows SET
			current_stage = $2, qualification_score = $3,
			has_budget = $4, has_authority = $5, has_need = $6, has_timeline = $7,
			budget_min = $8, budget_max = $9, timeline_months = $10,
			previous_customer = $11, referred = $12, updated_at = $13
		WHERE lead_id = $1`

	budgetMin, budgetMax := budgetColumns(wf.Criteria)
	if _, err := tx.Exec(ctx, updateQuery,
		wf.LeadID, wf.CurrentStage, wf.QualificationScore,
		wf.Criteria.HasBudget, wf.Criteria.HasAuthority, wf.Criteria.HasNeed, wf.Criteria.HasTimeline,
		budgetMin, budgetMax, wf.Criteria.TimelineMonths,
		wf.PreviousCustomer, wf.Referred, wf.UpdatedAt,
	); err != nil {
		return domain.Lead{}, domain.Workflow{}, fmt.Errorf("update workflow: %w", err)
	}

	if err := insertTransitions(ctx, tx, leadID, appended); err != nil {
		return domain.Lead{}, domain.Workflow{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, domain.Workflow{}, fmt.Errorf("commit: %w", err)
	}
	return lead, wf, nil
}

// List returns a page of leads with their workflow state, newest first.
func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}

	where := ` WHERE 1=1`
	args := []interface{}{}
	argN := 1
	if params.Stage != "" {
		where += fmt.Sprintf(" AND w.current_stage = $%d", argN)
		args = append(args, params.Stage)
		argN++
	}
	if params.Territory != "" {
		where += fmt.Sprintf(" AND l.territory = $%d", argN)
		args = append(args, params.Territory)
		argN++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM leads l JOIN lead_workflows w ON w.lead_id = l.id` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count leads: %w", err)
	}

	listQuery := `
		SELECT l.id, l.name, l.phone, l.email, l.interest_level, l.decision_makers,
		       l.specific_needs, l.package_seen, l.signed_up, l.territory, l.industry,
		       l.deal_size, l.source, l.created_at, l.updated_at,
		       w.current_stage, w.qualification_score,
		       w.has_budget, w.has_authority, w.has_need, w.has_timeline,
		       w.budget_min, w.budget_max, w.timeline_months,
		       w.previous_customer, w.referred, w.created_at, w.updated_at
		FROM leads l JOIN lead_workflows w ON w.lead_id = l.id` + where +
		fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	items := []LeadWithWorkflow{}
	for rows.Next() {
		item, err := scanLeadWithWorkflow(rows)
		if err != nil {
			return ListResult{}, fmt.Errorf("scan lead: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("list leads: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return ListResult{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}, nil
}

// ListStale returns leads sitting in the given stage whose latest transition
// is older than the cutoff.
func (r *Repository) ListStale(ctx context.Context, stage domain.Stage, cutoff time.Time) ([]StaleLead, error) {
	query := `
		SELECT w.lead_id, w.current_stage, MAX(h.occurred_at)
		FROM lead_workflows w
		JOIN lead_stage_history h ON h.lead_id = w.lead_id
		WHERE w.current_stage = $1
		GROUP BY w.lead_id, w.current_stage
		HAVING MAX(h.occurred_at) < $2`

	rows, err := r.pool.Query(ctx, query, stage, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list stale leads: %w", err)
	}
	defer rows.Close()

	var stale []StaleLead
	for rows.Next() {
		var s StaleLead
		if err := rows.Scan(&s.LeadID, &s.Stage, &s.EnteredAt); err != nil {
			return nil, fmt.Errorf("scan stale lead: %w", err)
		}
		stale = append(stale, s)
	}
	return stale, rows.Err()
}

// ListIDsByStages returns the IDs of all leads currently in the given stages.
// Used by the scheduler to enqueue batch requalification.
func (r *Repository) ListIDsByStages(ctx context.Context, stages []domain.Stage) ([]uuid.UUID, error) {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = string(s)
	}
	rows, err := r.pool.Query(ctx,
		`SELECT lead_id FROM lead_workflows WHERE current_stage = ANY($1)`, names)
	if err != nil {
		return nil, fmt.Errorf("list lead ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lead id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ── Scan helpers ──────────────────────────────────────────────────────────────

const workflowSelect = `
	SELECT lead_id, current_stage, qualification_score,
	       has_budget, has_authority, has_need, has_timeline,
	       budget_min, budget_max, timeline_months,
	       previous_customer, referred, created_at, updated_at
	FROM lead_workflows`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Phone, &lead.Email, &lead.InterestLevel,
		&lead.DecisionMakers, &lead.SpecificNeeds, &lead.PackageSeen, &lead.SignedUp,
		&lead.Territory, &lead.Industry, &lead.DealSize, &lead.Source,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

func (r *Repository) scanWorkflowRow(row pgx.Row) (domain.Workflow, error) {
	var (
		wf                   domain.Workflow
		budgetMin, budgetMax *int64
	)
	err := row.Scan(
		&wf.LeadID, &wf.CurrentStage, &wf.QualificationScore,
		&wf.Criteria.HasBudget, &wf.Criteria.HasAuthority, &wf.Criteria.HasNeed, &wf.Criteria.HasTimeline,
		&budgetMin, &budgetMax, &wf.Criteria.TimelineMonths,
		&wf.PreviousCustomer, &wf.Referred, &wf.CreatedAt, &wf.UpdatedAt,
	)
	if err != nil {
		return domain.Workflow{}, err
	}
	wf.Criteria.BudgetRange = budgetRange(budgetMin, budgetMax)
	return wf, nil
}

func scanLeadWithWorkflow(rows pgx.Rows) (LeadWithWorkflow, error) {
	var (
		item                 LeadWithWorkflow
		budgetMin, budgetMax *int64
	)
	err := rows.Scan(
		&item.Lead.ID, &item.Lead.Name, &item.Lead.Phone, &item.Lead.Email,
		&item.Lead.InterestLevel, &item.Lead.DecisionMakers, &item.Lead.SpecificNeeds,
		&item.Lead.PackageSeen, &item.Lead.SignedUp, &item.Lead.Territory,
		&item.Lead.Industry, &item.Lead.DealSize, &item.Lead.Source,
		&item.Lead.CreatedAt, &item.Lead.UpdatedAt,
		&item.Workflow.CurrentStage, &item.Workflow.QualificationScore,
		&item.Workflow.Criteria.HasBudget, &item.Workflow.Criteria.HasAuthority,
		&item.Workflow.Criteria.HasNeed, &item.Workflow.Criteria.HasTimeline,
		&budgetMin, &budgetMax, &item.Workflow.Criteria.TimelineMonths,
		&item.Workflow.PreviousCustomer, &item.Workflow.Referred,
		&item.Workflow.CreatedAt, &item.Workflow.UpdatedAt,
	)
	if err != nil {
		return LeadWithWorkflow{}, err
	}
	item.Workflow.LeadID = item.Lead.ID
	item.Workflow.Criteria.BudgetRange = budgetRange(budgetMin, budgetMax)
	return item, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *Repository) loadHistory(ctx context.Context, q querier, leadID uuid.UUID) ([]domain.StageTransition, error) {
	rows, err := q.Query(ctx,
		`SELECT from_stage, to_stage, occurred_at FROM lead_stage_history WHERE lead_id = $1 ORDER BY occurred_at, id`,
		leadID)
	if err != nil {
		return nil, fmt.Errorf("load stage history: %w", err)
	}
	defer rows.Close()

	var history []domain.StageTransition
	for rows.Next() {
		var t domain.StageTransition
		if err := rows.Scan(&t.From, &t.To, &t.At); err != nil {
			return nil, fmt.Errorf("scan stage history: %w", err)
		}
		history = append(history, t)
	}
	return history, rows.Err()
}

func insertWorkflow(ctx context.Context, tx pgx.Tx, wf domain.Workflow) error {
	query := `
		INSERT INTO lead_workflows (
			lead_id, current_stage, qualification_score,
			has_budget, has_authority, has_need, has_timeline,
			budget_min, budget_max, timeline_months,
			previous_customer, referred, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	budgetMin, budgetMax := budgetColumns(wf.Criteria)
	if _, err := tx.Exec(ctx, query,
		wf.LeadID, wf.CurrentStage, wf.QualificationScore,
		wf.Criteria.HasBudget, wf.Criteria.HasAuthority, wf.Criteria.HasNeed, wf.Criteria.HasTimeline,
		budgetMin, budgetMax, wf.Criteria.TimelineMonths,
		wf.PreviousCustomer, wf.Referred, wf.CreatedAt, wf.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

func insertTransitions(ctx context.Context, tx pgx.Tx, leadID uuid.UUID, transitions []domain.StageTransition) error {
	for _, t := range transitions {
		if _, err := tx.Exec(ctx,
			`INSERT INTO lead_stage_history (lead_id, from_stage, to_stage, occurred_at) VALUES ($1, $2, $3, $4)`,
			leadID, t.From, t.To, t.At,
		); err != nil {
			return fmt.Errorf("insert stage transition: %w", err)
		}
	}
	return nil
}

func budgetColumns(c domain.Criteria) (*int64, *int64) {
	if c.BudgetRange == nil {
		return nil, nil
	}
	minVal, maxVal := c.BudgetRange.Min, c.BudgetRange.Max
	return &minVal, &maxVal
}

func budgetRange(minVal, maxVal *int64) *domain.BudgetRange {
	if minVal == nil && maxVal == nil {
		return nil
	}
	br := &domain.BudgetRange{}
	if minVal != nil {
		br.Min = *minVal
	}
	if maxVal != nil {
		br.Max = *maxVal
	}
	return br
}
