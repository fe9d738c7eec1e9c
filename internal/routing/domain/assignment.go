package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssignedBySystem marks assignments produced by the routing engine rather
// than a human action.
const AssignedBySystem = "system"

// Assignment binds a lead to a sales rep, with the reasoning that produced
// the match and up to two alternative reps that were also eligible.
type Assignment struct {
	LeadID          uuid.UUID
	AssignedTo      uuid.UUID
	AssignedBy      string
	Reason          string
	Timestamp       time.Time
	Territory       string
	AlternativeReps []uuid.UUID
}
