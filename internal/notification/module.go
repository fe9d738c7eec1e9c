// Package notification subscribes to domain events and sends the
// corresponding emails. Domain modules publish events and stay unaware of
// delivery concerns.
package notification

import (
	"context"
	"fmt"

	"salesdesk_backend/internal/email"
	"salesdesk_backend/internal/events"
	"salesdesk_backend/platform/logger"

	"github.com/google/uuid"
)

// LeadReader resolves display data for a lead. Satisfied by an adapter over
// the leads module.
type LeadReader interface {
	LeadName(ctx context.Context, leadID uuid.UUID) (string, error)
}

// AssignmentReader resolves the rep currently responsible for a lead.
// Satisfied by an adapter over the routing module.
type AssignmentReader interface {
	AssignedRepEmail(ctx context.Context, leadID uuid.UUID) (string, error)
}

// Module wires event subscriptions to the email sender.
type Module struct {
	sender      email.Sender
	leads       LeadReader
	assignments AssignmentReader
	log         *logger.Logger
}

// New creates the notification module.
func New(sender email.Sender, log *logger.Logger) *Module {
	return &Module{sender: sender, log: log}
}

// SetLeadReader injects the leads lookup port.
func (m *Module) SetLeadReader(r LeadReader) { m.leads = r }

// SetAssignmentReader injects the routing lookup port.
func (m *Module) SetAssignmentReader(r AssignmentReader) { m.assignments = r }

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(m.handleLeadAssigned))
	bus.Subscribe(events.LeadWentStale{}.EventName(), events.HandlerFunc(m.handleLeadWentStale))
	bus.Subscribe(events.LeadStageChanged{}.EventName(), events.HandlerFunc(m.handleLeadStageChanged))
}

func (m *Module) handleLeadAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAssigned)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.RepEmail == "" {
		return nil
	}

	name := m.leadName(ctx, e.LeadID)
	if err := m.sender.SendLeadAssignedEmail(ctx, e.RepEmail, name, e.Territory, e.Reason); err != nil {
		m.log.Error("lead assigned email failed", "leadId", e.LeadID, "rep", e.RepID, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleLeadWentStale(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadWentStale)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if m.assignments == nil {
		return nil
	}

	repEmail, err := m.assignments.AssignedRepEmail(ctx, e.LeadID)
	if err != nil || repEmail == "" {
		// Unassigned leads have nobody to nudge.
		return nil
	}

	name := m.leadName(ctx, e.LeadID)
	if err := m.sender.SendStaleLeadEmail(ctx, repEmail, name, e.IdleHours); err != nil {
		m.log.Error("stale lead email failed", "leadId", e.LeadID, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleLeadStageChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadStageChanged)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if m.assignments == nil {
		return nil
	}

	repEmail, err := m.assignments.AssignedRepEmail(ctx, e.LeadID)
	if err != nil || repEmail == "" {
		return nil
	}

	name := m.leadName(ctx, e.LeadID)
	if err := m.sender.SendStageChangedEmail(ctx, repEmail, name, e.OldStage, e.NewStage); err != nil {
		m.log.Error("stage changed email failed", "leadId", e.LeadID, "error", err)
		return err
	}
	return nil
}

func (m *Module) leadName(ctx context.Context, leadID uuid.UUID) string {
	if m.leads == nil {
		return "a lead"
	}
	name, err := m.leads.LeadName(ctx, leadID)
	if err != nil || name == "" {
		return "a lead"
	}
	return name
}
