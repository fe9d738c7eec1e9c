// Package probability estimates a close probability for a lead with a
// contributing-factor breakdown. The estimator is a pure reporting function:
// it never mutates the workflow and produces identical output for identical
// snapshots. Callers pass the evaluation time explicitly.
package probability

import (
	"fmt"
	"time"

	"salesdesk_backend/internal/leads/domain"
)

// Confidence grades how much history backs the estimate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Breakdown is the full estimate: the stage base, the four bonus buckets,
// penalties, the clamped final probability, and ordered human-readable
// insights with a probability-banded headline first.
type Breakdown struct {
	BaseScore        int        `json:"baseScore"`
	QualityBonus     int        `json:"qualityBonus"`
	EngagementBonus  int        `json:"engagementBonus"`
	BusinessBonus    int        `json:"businessBonus"`
	HistoricalBonus  int        `json:"historicalBonus"`
	Penalties        int        `json:"penalties"`
	FinalProbability int        `json:"finalProbability"`
	Confidence       Confidence `json:"confidence"`
	Insights         []string   `json:"insights"`
}

// Per-stage base probabilities.
var stageBase = map[domain.Stage]int{
	domain.StageNew:         5,
	domain.StageContacted:   15,
	domain.StageQualified:   35,
	domain.StageOpportunity: 65,
	domain.StageCustomer:    95,
	domain.StageLost:        0,
}

const (
	largeBudgetMin      int64 = 100000
	urgentTimelineMax         = 3
	stalledContactedDays      = 14
	fastProgressionDays       = 7
)

// Estimate computes the close-probability breakdown for a workflow snapshot.
func Estimate(w domain.Workflow, lead domain.Lead, now time.Time) Breakdown {
	b := Breakdown{BaseScore: stageBase[w.CurrentStage]}
	var factors []string

	// Quality: how well the lead is qualified.
	switch {
	case w.QualificationScore >= 80:
		b.QualityBonus += 10
		factors = append(factors, "Excellent qualification score")
	case w.QualificationScore >= 60:
		b.QualityBonus += 6
		factors = append(factors, "Good qualification score")
	case w.QualificationScore >= 40:
		b.QualityBonus += 3
		factors = append(factors, "Moderate qualification score")
	}
	if w.Criteria.Complete() {
		b.QualityBonus += 8
		factors = append(factors, "All BANT criteria confirmed")
	}

	// Engagement: how actively the prospect participates.
	switch {
	case lead.InterestLevel >= 5:
		b.EngagementBonus += 8
		factors = append(factors, "Very high interest level")
	case lead.InterestLevel >= 4:
		b.EngagementBonus += 5
		factors = append(factors, "High interest level")
	case lead.InterestLevel >= 3:
		b.EngagementBonus += 2
		factors = append(factors, "Moderate interest level")
	}
	if lead.PackageSeen {
		b.EngagementBonus += 4
		factors = append(factors, "Package presentation viewed")
	}
	if lead.HasMultipleStakeholders() {
		b.EngagementBonus += 3
		factors = append(factors, "Multiple stakeholders involved")
	}
	if lead.HasDetailedNeeds() {
		b.EngagementBonus += 3
		factors = append(factors, "Detailed needs description provided")
	}

	// Business: deal economics and urgency.
	if w.Criteria.BudgetRange != nil && w.Criteria.BudgetRange.Max >= largeBudgetMin {
		b.BusinessBonus += 5
		factors = append(factors, "Large budget range")
	}
	if w.Criteria.TimelineMonths != nil && *w.Criteria.TimelineMonths <= urgentTimelineMax {
		b.BusinessBonus += 5
		factors = append(factors, "Urgent decision timeline")
	}

	// Historical: trajectory and relationship signals.
	if fastProgression(w) {
		b.HistoricalBonus += 5
		factors = append(factors, "Fast stage progression")
	}
	if w.PreviousCustomer {
		b.HistoricalBonus += 6
		factors = append(factors, "Previous customer relationship")
	}
	if w.Referred {
		b.HistoricalBonus += 4
		factors = append(factors, "Came in through a referral")
	}

	// Penalties: qualification gaps and stalling.
	if !w.Criteria.HasBudget {
		b.Penalties += 8
		factors = append(factors, "No budget confirmed")
	}
	if !w.Criteria.HasAuthority {
		b.Penalties += 6
		factors = append(factors, "Decision authority not confirmed")
	}
	if w.CurrentStage == domain.StageContacted &&
		w.TimeInCurrentStage(now) > stalledContactedDays*24*time.Hour {
		b.Penalties += 10
		factors = append(factors, fmt.Sprintf("Stalled in contacted for over %d days", stalledContactedDays))
	}

	total := b.BaseScore + b.QualityBonus + b.EngagementBonus + b.BusinessBonus + b.HistoricalBonus - b.Penalties
	b.FinalProbability = clamp(total)
	b.Confidence = confidence(w)
	b.Insights = append([]string{headline(b.FinalProbability)}, factors...)

	return b
}

// fastProgression reports whether the workflow advanced through more than
// one real stage within its first week.
func fastProgression(w domain.Workflow) bool {
	if w.RealTransitionCount() < 2 {
		return false
	}
	last := w.StageHistory[len(w.StageHistory)-1]
	return last.At.Sub(w.CreatedAt) <= fastProgressionDays*24*time.Hour
}

func confidence(w domain.Workflow) Confidence {
	historyLen := len(w.StageHistory)
	bant := w.Criteria.BANTCount()
	switch {
	case historyLen >= 3 && bant >= 3:
		return ConfidenceHigh
	case historyLen >= 2 && bant >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func headline(probability int) string {
	switch {
	case probability >= 70:
		return "Hot lead: prioritize for immediate close"
	case probability >= 50:
		return "Good prospect: keep active momentum"
	case probability >= 30:
		return "Nurture candidate: build qualification"
	default:
		return "Cold lead: low close probability"
	}
}

func clamp(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
