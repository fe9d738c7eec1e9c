package adapters

import (
	"context"

	leadrepo "salesdesk_backend/internal/leads/repository"
	routingrepo "salesdesk_backend/internal/routing/repository"

	"github.com/google/uuid"
)

// LeadNameReader adapts the leads repository to the notification module's
// LeadReader port.
type LeadNameReader struct {
	repo *leadrepo.Repository
}

func NewLeadNameReader(repo *leadrepo.Repository) *LeadNameReader {
	return &LeadNameReader{repo: repo}
}

func (r *LeadNameReader) LeadName(ctx context.Context, leadID uuid.UUID) (string, error) {
	lead, err := r.repo.GetLead(ctx, leadID)
	if err != nil {
		return "", err
	}
	return lead.Name, nil
}

// AssignmentEmailReader adapts the routing repository to the notification
// module's AssignmentReader port.
type AssignmentEmailReader struct {
	repo *routingrepo.Repository
}

func NewAssignmentEmailReader(repo *routingrepo.Repository) *AssignmentEmailReader {
	return &AssignmentEmailReader{repo: repo}
}

func (r *AssignmentEmailReader) AssignedRepEmail(ctx context.Context, leadID uuid.UUID) (string, error) {
	assignment, err := r.repo.GetAssignment(ctx, leadID)
	if err != nil {
		return "", err
	}
	rep, err := r.repo.GetRep(ctx, assignment.AssignedTo)
	if err != nil {
		return "", err
	}
	return rep.Email, nil
}
