// Package ports defines the interfaces the leads module needs from other
// modules. Adapters in the composition root satisfy them, keeping the leads
// module free of cross-module imports.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// AssignmentResult describes where the routing engine placed a lead.
type AssignmentResult struct {
	RepID  uuid.UUID
	Reason string
}

// AssignmentProvider routes a new lead to a sales rep. A nil result with a
// nil error means no rep could be found; the lead stays unassigned.
type AssignmentProvider interface {
	AssignLead(ctx context.Context, leadID uuid.UUID, territory, industry string, dealSize float64) (*AssignmentResult, error)
}
