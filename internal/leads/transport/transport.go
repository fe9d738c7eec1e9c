// Package transport defines the request and response DTOs for the leads API.
package transport

import (
	"time"

	"salesdesk_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// CriteriaRequest carries the BANT qualification flags for a lead.
type CriteriaRequest struct {
	HasBudget      bool   `json:"hasBudget"`
	HasAuthority   bool   `json:"hasAuthority"`
	HasNeed        bool   `json:"hasNeed"`
	HasTimeline    bool   `json:"hasTimeline"`
	BudgetMin      *int64 `json:"budgetMin" validate:"omitempty,min=0"`
	BudgetMax      *int64 `json:"budgetMax" validate:"omitempty,min=0"`
	TimelineMonths *int   `json:"timelineMonths" validate:"omitempty,min=0"`
}

// ToDomain converts the request into domain criteria.
func (r CriteriaRequest) ToDomain() domain.Criteria {
	c := domain.Criteria{
		HasBudget:      r.HasBudget,
		HasAuthority:   r.HasAuthority,
		HasNeed:        r.HasNeed,
		HasTimeline:    r.HasTimeline,
		TimelineMonths: r.TimelineMonths,
	}
	if r.BudgetMin != nil || r.BudgetMax != nil {
		br := domain.BudgetRange{}
		if r.BudgetMin != nil {
			br.Min = *r.BudgetMin
		}
		if r.BudgetMax != nil {
			br.Max = *r.BudgetMax
		}
		c.BudgetRange = &br
	}
	return c
}

// CreateLeadRequest is the intake payload for a new lead.
type CreateLeadRequest struct {
	Name           string           `json:"name" validate:"required,min=2,max=200"`
	Phone          string           `json:"phone" validate:"required,min=6,max=32"`
	Email          *string          `json:"email" validate:"omitempty,email"`
	InterestLevel  int              `json:"interestLevel" validate:"min=0,max=5"`
	DecisionMakers string           `json:"decisionMakers" validate:"max=500"`
	SpecificNeeds  string           `json:"specificNeeds" validate:"max=2000"`
	PackageSeen    bool             `json:"packageSeen"`
	SignedUp       bool             `json:"signedUp"`
	Territory      string           `json:"territory" validate:"required,max=64"`
	Industry       string           `json:"industry" validate:"max=100"`
	DealSize       float64          `json:"dealSize" validate:"min=0"`
	Source         *string          `json:"source" validate:"omitempty,max=100"`
	Criteria       *CriteriaRequest `json:"criteria"`
}

// OverrideStageRequest moves a workflow to an explicit stage, bypassing
// the resolver. Used by managers to correct state.
type OverrideStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

// ListLeadsParams are the query parameters for listing leads.
type ListLeadsParams struct {
	Stage     string `form:"stage"`
	Territory string `form:"territory"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// StageHistoryEntry is one transition in a workflow's audit trail.
type StageHistoryEntry struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	At   time.Time `json:"at"`
}

// LeadResponse is the API representation of a lead and its workflow state.
type LeadResponse struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Phone          string              `json:"phone"`
	Email          *string             `json:"email,omitempty"`
	InterestLevel  int                 `json:"interestLevel"`
	DecisionMakers string              `json:"decisionMakers,omitempty"`
	SpecificNeeds  string              `json:"specificNeeds,omitempty"`
	PackageSeen    bool                `json:"packageSeen"`
	SignedUp       bool                `json:"signedUp"`
	Territory      string              `json:"territory"`
	Industry       string              `json:"industry,omitempty"`
	DealSize       float64             `json:"dealSize"`
	Source         *string             `json:"source,omitempty"`
	Score          int                 `json:"score"`
	Stage          string              `json:"stage"`
	Criteria       CriteriaRequest     `json:"criteria"`
	StageHistory   []StageHistoryEntry `json:"stageHistory,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// ListLeadsResponse is the paginated list envelope.
type ListLeadsResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// FromDomain builds the API representation from the domain lead and workflow.
func FromDomain(lead domain.Lead, wf domain.Workflow, includeHistory bool) LeadResponse {
	resp := LeadResponse{
		ID:             lead.ID,
		Name:           lead.Name,
		Phone:          lead.Phone,
		Email:          lead.Email,
		InterestLevel:  lead.InterestLevel,
		DecisionMakers: lead.DecisionMakers,
		SpecificNeeds:  lead.SpecificNeeds,
		PackageSeen:    lead.PackageSeen,
		SignedUp:       lead.SignedUp,
		Territory:      lead.Territory,
		Industry:       lead.Industry,
		DealSize:       lead.DealSize,
		Source:         lead.Source,
		Score:          wf.QualificationScore,
		Stage:          string(wf.CurrentStage),
		Criteria:       criteriaFromDomain(wf.Criteria),
		CreatedAt:      lead.CreatedAt,
		UpdatedAt:      lead.UpdatedAt,
	}
	if includeHistory {
		resp.StageHistory = make([]StageHistoryEntry, 0, len(wf.StageHistory))
		for _, t := range wf.StageHistory {
			resp.StageHistory = append(resp.StageHistory, StageHistoryEntry{
				From: string(t.From),
				To:   string(t.To),
				At:   t.At,
			})
		}
	}
	return resp
}

func criteriaFromDomain(c domain.Criteria) CriteriaRequest {
	req := CriteriaRequest{
		HasBudget:      c.HasBudget,
		HasAuthority:   c.HasAuthority,
		HasNeed:        c.HasNeed,
		HasTimeline:    c.HasTimeline,
		TimelineMonths: c.TimelineMonths,
	}
	if c.BudgetRange != nil {
		minVal, maxVal := c.BudgetRange.Min, c.BudgetRange.Max
		req.BudgetMin = &minVal
		req.BudgetMax = &maxVal
	}
	return req
}
