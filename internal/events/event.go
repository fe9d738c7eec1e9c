// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"salesdesk_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Territory string    `json:"territory"`
	Source    string    `json:"source,omitempty"`
	Score     int       `json:"score"`
	Stage     string    `json:"stage"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadQualified is published when a lead's qualification score first
// crosses the qualified threshold.
type LeadQualified struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	Score    int       `json:"score"`
	OldScore int       `json:"oldScore"`
}

func (e LeadQualified) EventName() string { return "leads.lead.qualified" }

// LeadStageChanged is published whenever a workflow moves to a new stage,
// whether by the resolver or by manual override.
type LeadStageChanged struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	OldStage string    `json:"oldStage"`
	NewStage string    `json:"newStage"`
	Manual   bool      `json:"manual"`
	// ActorID is the user who forced the stage, uuid.Nil for resolver moves.
	ActorID uuid.UUID `json:"actorId"`
}

func (e LeadStageChanged) EventName() string { return "leads.stage.changed" }

// LeadWentStale is published by the stale sweep when a contacted lead has
// had no stage movement past the staleness window.
type LeadWentStale struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	Stage     string    `json:"stage"`
	IdleHours int       `json:"idleHours"`
}

func (e LeadWentStale) EventName() string { return "leads.lead.went_stale" }

// =============================================================================
// Routing Domain Events
// =============================================================================

// LeadAssigned is published when the routing engine assigns a lead to a rep.
type LeadAssigned struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	RepID     uuid.UUID `json:"repId"`
	RepEmail  string    `json:"repEmail,omitempty"`
	Territory string    `json:"territory"`
	Reason    string    `json:"reason"`
}

func (e LeadAssigned) EventName() string { return "routing.lead.assigned" }

// LeadUnrouted is published when no rule and no fallback could place a lead.
type LeadUnrouted struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	Territory string    `json:"territory"`
}

func (e LeadUnrouted) EventName() string { return "routing.lead.unrouted" }
