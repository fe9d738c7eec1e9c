// Package repository provides database access for the routing roster,
// rule set and assignment log.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salesdesk_backend/internal/routing/domain"
	"salesdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repNotFoundMsg = "sales rep not found"

// Repository provides database operations for routing.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new routing repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ── Sales reps ────────────────────────────────────────────────────────────────

const repSelect = `
	SELECT id, name, email, territories, availability, current_load, max_capacity,
	       conversion_rate, avg_deal_size, specializations, last_assignment
	FROM sales_reps`

// CreateRep inserts a new rep into the roster.
func (r *Repository) CreateRep(ctx context.Context, rep domain.SalesRep) error {
	query := `
		INSERT INTO sales_reps (
			id, name, email, territories, availability, current_load, max_capacity,
			conversion_rate, avg_deal_size, specializations, last_assignment,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())`

	if _, err := r.pool.Exec(ctx, query,
		rep.ID, rep.Name, rep.Email, rep.Territories, rep.Availability,
		rep.CurrentLoad, rep.MaxCapacity,
		rep.Performance.ConversionRate, rep.Performance.AvgDealSize,
		rep.Specializations, rep.LastAssignment,
	); err != nil {
		return fmt.Errorf("insert sales rep: %w", err)
	}
	return nil
}

// GetRep fetches a single rep by ID.
func (r *Repository) GetRep(ctx context.Context, id uuid.UUID) (domain.SalesRep, error) {
	rep, err := scanRep(r.pool.QueryRow(ctx, repSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SalesRep{}, apperr.NotFound(repNotFoundMsg)
		}
		return domain.SalesRep{}, fmt.Errorf("get sales rep: %w", err)
	}
	return rep, nil
}

// ListReps returns the full roster in insertion order. The engine relies on a
// stable roster order for its tie-breaking, so the sort key is fixed.
func (r *Repository) ListReps(ctx context.Context) ([]domain.SalesRep, error) {
	rows, err := r.pool.Query(ctx, repSelect+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list sales reps: %w", err)
	}
	defer rows.Close()

	var reps []domain.SalesRep
	for rows.Next() {
		rep, err := scanRep(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales rep: %w", err)
		}
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}

// UpdateRep persists the mutable routing attributes of a rep.
func (r *Repository) UpdateRep(ctx context.Context, rep domain.SalesRep) error {
	query := `
		UPDATE sales_reps SET
			territories = $2, availability = $3, current_load = $4, max_capacity = $5,
			conversion_rate = $6, avg_deal_size = $7, specializations = $8,
			last_assignment = $9, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		rep.ID, rep.Territories, rep.Availability, rep.CurrentLoad, rep.MaxCapacity,
		rep.Performance.ConversionRate, rep.Performance.AvgDealSize,
		rep.Specializations, rep.LastAssignment,
	)
	if err != nil {
		return fmt.Errorf("update sales rep: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(repNotFoundMsg)
	}
	return nil
}

// ── Routing rules ─────────────────────────────────────────────────────────────

// ListRules returns the enabled rules. Priority order is the engine's concern;
// the repository only filters.
func (r *Repository) ListRules(ctx context.Context) ([]domain.Rule, error) {
	query := `
		SELECT id, name, description, priority, kind, min_deal_size
		FROM routing_rules WHERE enabled ORDER BY priority, created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list routing rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.Rule
	for rows.Next() {
		var rule domain.Rule
		if err := rows.Scan(&rule.ID, &rule.Name, &rule.Description, &rule.Priority, &rule.Kind, &rule.MinDealSize); err != nil {
			return nil, fmt.Errorf("scan routing rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// ── Assignments ───────────────────────────────────────────────────────────────

// RecordAssignment logs the assignment and bumps the winning rep's load and
// last-assignment marker in one transaction.
func (r *Repository) RecordAssignment(ctx context.Context, a domain.Assignment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO lead_assignments (lead_id, rep_id, assigned_by, reason, territory, alternatives, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.LeadID, a.AssignedTo, a.AssignedBy, a.Reason, a.Territory, a.AlternativeReps, a.Timestamp,
	); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE sales_reps SET current_load = current_load + 1, last_assignment = $2, updated_at = now()
		WHERE id = $1`,
		a.AssignedTo, a.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("bump rep load: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(repNotFoundMsg)
	}

	return tx.Commit(ctx)
}

// GetAssignment returns the latest assignment for a lead.
func (r *Repository) GetAssignment(ctx context.Context, leadID uuid.UUID) (domain.Assignment, error) {
	query := `
		SELECT lead_id, rep_id, assigned_by, reason, territory, alternatives, created_at
		FROM lead_assignments WHERE lead_id = $1 ORDER BY created_at DESC LIMIT 1`

	var (
		a            domain.Assignment
		alternatives []uuid.UUID
	)
	err := r.pool.QueryRow(ctx, query, leadID).Scan(
		&a.LeadID, &a.AssignedTo, &a.AssignedBy, &a.Reason, &a.Territory, &alternatives, &a.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assignment{}, apperr.NotFound("no assignment for lead")
		}
		return domain.Assignment{}, fmt.Errorf("get assignment: %w", err)
	}
	a.AlternativeReps = alternatives
	return a, nil
}

// ── Scan helpers ──────────────────────────────────────────────────────────────

func scanRep(row pgx.Row) (domain.SalesRep, error) {
	var (
		rep            domain.SalesRep
		lastAssignment *time.Time
	)
	err := row.Scan(
		&rep.ID, &rep.Name, &rep.Email, &rep.Territories, &rep.Availability,
		&rep.CurrentLoad, &rep.MaxCapacity,
		&rep.Performance.ConversionRate, &rep.Performance.AvgDealSize,
		&rep.Specializations, &lastAssignment,
	)
	if err != nil {
		return domain.SalesRep{}, err
	}
	rep.LastAssignment = lastAssignment
	return rep, nil
}
