// Package domain provides core business rules for the leads bounded context.
// Everything in this package is pure: no I/O, no logging, no clocks other
// than timestamps passed in by callers.
package domain

// Stage is a position in the sales pipeline state machine. The set is closed;
// code must only ever construct the constants below.
type Stage string

const (
	StageNew         Stage = "new"
	StageContacted   Stage = "contacted"
	StageQualified   Stage = "qualified"
	StageOpportunity Stage = "opportunity"
	StageCustomer    Stage = "customer"
	StageLost        Stage = "lost"
)

// stageRank orders the forward pipeline. Terminal stages sit outside the
// ordering: customer is the successful end, lost an exit from any stage.
var stageRank = map[Stage]int{
	StageNew:         0,
	StageContacted:   1,
	StageQualified:   2,
	StageOpportunity: 3,
	StageCustomer:    4,
}

var knownStages = map[Stage]struct{}{
	StageNew:         {},
	StageContacted:   {},
	StageQualified:   {},
	StageOpportunity: {},
	StageCustomer:    {},
	StageLost:        {},
}

// Known reports whether s is one of the six pipeline stages.
func (s Stage) Known() bool {
	_, ok := knownStages[s]
	return ok
}

// Terminal reports whether s is a sticky terminal stage. Automated
// re-evaluation must never move a workflow out of a terminal stage.
func (s Stage) Terminal() bool {
	return s == StageCustomer || s == StageLost
}

// Rank returns the position of s in the forward pipeline ordering,
// or -1 for lost (which has no forward position).
func (s Stage) Rank() int {
	if r, ok := stageRank[s]; ok {
		return r
	}
	return -1
}
