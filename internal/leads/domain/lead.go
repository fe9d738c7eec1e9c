package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead is a prospect record as captured at intake and mutated by sales
// activity. Optional text fields are zero-valued when absent; scoring and
// advisory code treats empty strings as missing, never as an error.
type Lead struct {
	ID             uuid.UUID
	Name           string
	Phone          string
	Email          *string
	InterestLevel  int // 0-5
	DecisionMakers string
	SpecificNeeds  string
	PackageSeen    bool
	SignedUp       bool
	Territory      string
	Industry       string
	DealSize       float64
	Source         *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasMultipleStakeholders reports whether the free-text decisionMakers field
// names more than one person. The comma heuristic is deliberately isolated
// here so its fuzziness never leaks past a boolean.
func (l Lead) HasMultipleStakeholders() bool {
	return strings.Contains(l.DecisionMakers, ",")
}

// HasDetailedNeeds reports whether the prospect described their needs in
// enough detail to count as a qualification signal.
func (l Lead) HasDetailedNeeds() bool {
	return len(strings.TrimSpace(l.SpecificNeeds)) > 50
}

// BudgetRange is an optional min/max budget bracket on the BANT criteria.
type BudgetRange struct {
	Min int64
	Max int64
}

// Criteria holds the BANT qualification flags for a lead.
type Criteria struct {
	HasBudget      bool
	HasAuthority   bool
	HasNeed        bool
	HasTimeline    bool
	BudgetRange    *BudgetRange
	TimelineMonths *int
}

// BANTCount returns how many of the four BANT flags are set.
func (c Criteria) BANTCount() int {
	count := 0
	for _, flag := range []bool{c.HasBudget, c.HasAuthority, c.HasNeed, c.HasTimeline} {
		if flag {
			count++
		}
	}
	return count
}

// Complete reports whether all four BANT flags are set.
func (c Criteria) Complete() bool {
	return c.BANTCount() == 4
}
