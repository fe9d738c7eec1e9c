// Package scoring computes the 0-100 qualification score for a lead.
// Scoring is pure: no I/O, no clock, no logging.
package scoring

import (
	"salesdesk_backend/internal/leads/domain"
)

// BANT flag weight: all four flags together reach 100 before bonuses.
const bantWeight = 25

// Bonus weights for auxiliary signals.
const (
	bonusHighInterest     = 10
	bonusMultiStakeholder = 5
	bonusDetailedNeeds    = 10
	highInterestThreshold = 4
)

// Score computes the qualification score for a lead against its BANT
// criteria plus the default named rule set. The raw sum is clamped to
// [0,100]; values above 100 are expected and not an error.
func Score(lead domain.Lead, criteria domain.Criteria) int {
	return ScoreWithRules(lead, criteria, DefaultRules())
}

// ScoreWithRules is Score with an explicit rule set, used by tests and by
// callers carrying tenant-specific rules.
func ScoreWithRules(lead domain.Lead, criteria domain.Criteria, rules []Rule) int {
	total := criteria.BANTCount() * bantWeight

	if lead.InterestLevel >= highInterestThreshold {
		total += bonusHighInterest
	}
	if lead.HasMultipleStakeholders() {
		total += bonusMultiStakeholder
	}
	if lead.HasDetailedNeeds() {
		total += bonusDetailedNeeds
	}

	for _, rule := range rules {
		if rule.Matches(lead) {
			total += rule.Score
		}
	}

	return clamp(total)
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
