// Package adapters contains anti-corruption adapters between modules, so each
// module only depends on its own port interfaces.
package adapters

import (
	"context"

	"salesdesk_backend/internal/leads/ports"
	routingservice "salesdesk_backend/internal/routing/service"

	"github.com/google/uuid"
)

// RoutingAssigner adapts the routing service to the leads module's
// AssignmentProvider port.
type RoutingAssigner struct {
	svc *routingservice.Service
}

// NewRoutingAssigner creates the adapter.
func NewRoutingAssigner(svc *routingservice.Service) *RoutingAssigner {
	return &RoutingAssigner{svc: svc}
}

// AssignLead routes the lead and translates the result to the port type.
func (a *RoutingAssigner) AssignLead(ctx context.Context, leadID uuid.UUID, territory, industry string, dealSize float64) (*ports.AssignmentResult, error) {
	assignment, err := a.svc.AssignLead(ctx, leadID, territory, industry, dealSize)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, nil
	}
	return &ports.AssignmentResult{RepID: assignment.AssignedTo, Reason: assignment.Reason}, nil
}

// Compile-time check
var _ ports.AssignmentProvider = (*RoutingAssigner)(nil)
