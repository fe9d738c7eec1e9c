package domain

import (
	"time"

	"github.com/google/uuid"
)

// StageTransition is one entry in a workflow's append-only stage history.
type StageTransition struct {
	From Stage
	To   Stage
	At   time.Time
}

// Workflow wraps a lead with its qualification state. Invariants:
//   - the last history entry's To always equals CurrentStage
//   - history timestamps are chronologically non-decreasing
//   - once CurrentStage is terminal, ApplyStage refuses automated moves
type Workflow struct {
	LeadID             uuid.UUID
	CurrentStage       Stage
	QualificationScore int
	Criteria           Criteria
	StageHistory       []StageTransition
	PreviousCustomer   bool
	Referred           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewWorkflow creates a workflow in the initial stage with an opening
// history entry.
func NewWorkflow(leadID uuid.UUID, now time.Time) *Workflow {
	return &Workflow{
		LeadID:       leadID,
		CurrentStage: StageNew,
		StageHistory: []StageTransition{{From: StageNew, To: StageNew, At: now}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyStage moves the workflow to next, appending one history entry.
// A no-op transition (same stage) appends nothing, so repeated evaluation
// with unchanged inputs never duplicates history. Terminal stages are
// sticky against automated moves; use ForceStage for manual overrides.
func (w *Workflow) ApplyStage(next Stage, now time.Time) bool {
	if next == w.CurrentStage {
		return false
	}
	if w.CurrentStage.Terminal() {
		return false
	}
	w.append(next, now)
	return true
}

// ForceStage is the manual override path. It bypasses the terminal-stage
// guard and is only reachable through an explicit user action, never from
// automated re-evaluation.
func (w *Workflow) ForceStage(next Stage, now time.Time) bool {
	if next == w.CurrentStage {
		return false
	}
	w.append(next, now)
	return true
}

func (w *Workflow) append(next Stage, now time.Time) {
	w.StageHistory = append(w.StageHistory, StageTransition{
		From: w.CurrentStage,
		To:   next,
		At:   now,
	})
	w.CurrentStage = next
	w.UpdatedAt = now
}

// EnteredCurrentStageAt returns when the workflow entered its current stage.
// Falls back to CreatedAt when the history is empty.
func (w *Workflow) EnteredCurrentStageAt() time.Time {
	for i := len(w.StageHistory) - 1; i >= 0; i-- {
		if w.StageHistory[i].To == w.CurrentStage {
			return w.StageHistory[i].At
		}
	}
	return w.CreatedAt
}

// TimeInCurrentStage returns how long the workflow has sat in its current
// stage as of now.
func (w *Workflow) TimeInCurrentStage(now time.Time) time.Duration {
	return now.Sub(w.EnteredCurrentStageAt())
}

// RealTransitionCount counts history entries that changed the stage,
// excluding the opening new→new entry.
func (w *Workflow) RealTransitionCount() int {
	count := 0
	for _, tr := range w.StageHistory {
		if tr.From != tr.To {
			count++
		}
	}
	return count
}
