// Package engine implements the lead-to-rep routing decision. Assign is a
// pure function over in-memory values: no I/O, no logging, no clock beyond
// the timestamp the caller passes in.
package engine

import (
	"fmt"
	"sort"
	"time"

	"salesdesk_backend/internal/routing/domain"

	"github.com/google/uuid"
)

const maxAlternatives = 2

// Assign evaluates the routing chain for a lead and returns an assignment,
// or nil when no rule and no geographic fallback yields an eligible rep.
// A nil result is a normal business outcome, not an error.
//
// Rules are evaluated in ascending priority; rules sharing a priority keep
// their declared order. The first rule whose condition holds and whose
// strategy yields a rep wins. The geographic fallback runs only when the
// entire chain produced nothing.
func Assign(lead domain.LeadProfile, reps []domain.SalesRep, rules []domain.Rule, graph domain.TerritoryGraph, now time.Time) *domain.Assignment {
	ordered := append([]domain.Rule(nil), rules...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	for _, rule := range ordered {
		if !conditionHolds(rule, lead) {
			continue
		}
		candidates := candidatesFor(rule, lead, reps)
		if len(candidates) == 0 {
			continue
		}
		winner := candidates[0]
		return &domain.Assignment{
			LeadID:          lead.LeadID,
			AssignedTo:      winner.ID,
			AssignedBy:      domain.AssignedBySystem,
			Reason:          fmt.Sprintf("%s: %s", rule.Name, rule.Description),
			Timestamp:       now,
			Territory:       lead.Territory,
			AlternativeReps: alternatives(candidates),
		}
	}

	return fallback(lead, reps, graph, now)
}

// conditionHolds is the condition half of a rule's tagged variant.
func conditionHolds(rule domain.Rule, lead domain.LeadProfile) bool {
	switch rule.Kind {
	case domain.KindIndustrySpecialist:
		return lead.RequiresSpecialist()
	case domain.KindHighValueDeal:
		return lead.DealSize >= rule.MinDealSize
	case domain.KindTerritoryMatch, domain.KindRoundRobin:
		return true
	default:
		return false
	}
}

// candidatesFor is the assignment half: the eligible reps the rule would
// consider, best first. An empty slice means the rule yields nothing and
// the chain moves on.
func candidatesFor(rule domain.Rule, lead domain.LeadProfile, reps []domain.SalesRep) []domain.SalesRep {
	switch rule.Kind {
	case domain.KindIndustrySpecialist:
		pool := filter(reps, func(r domain.SalesRep) bool {
			return r.Eligible() && r.SpecializesIn(lead.Industry)
		})
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].Performance.ConversionRate > pool[j].Performance.ConversionRate
		})
		return pool

	case domain.KindHighValueDeal:
		pool := filter(reps, func(r domain.SalesRep) bool { return r.Eligible() })
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].Performance.AvgDealSize > pool[j].Performance.AvgDealSize
		})
		return pool

	case domain.KindTerritoryMatch:
		pool := filter(reps, func(r domain.SalesRep) bool {
			return r.Eligible() && r.Covers(lead.Territory)
		})
		sort.SliceStable(pool, func(i, j int) bool {
			if pool[i].LoadRatio() != pool[j].LoadRatio() {
				return pool[i].LoadRatio() < pool[j].LoadRatio()
			}
			return pool[i].Performance.ConversionRate > pool[j].Performance.ConversionRate
		})
		return pool

	case domain.KindRoundRobin:
		pool := filter(reps, func(r domain.SalesRep) bool { return r.Eligible() })
		sort.SliceStable(pool, func(i, j int) bool {
			return assignmentAge(pool[i]).Before(assignmentAge(pool[j]))
		})
		return pool

	default:
		return nil
	}
}

// fallback searches territories adjacent to the lead's for any eligible rep,
// best converter first.
func fallback(lead domain.LeadProfile, reps []domain.SalesRep, graph domain.TerritoryGraph, now time.Time) *domain.Assignment {
	adjacent := graph.Adjacent(lead.Territory)
	if len(adjacent) == 0 {
		return nil
	}

	pool := filter(reps, func(r domain.SalesRep) bool {
		return r.Eligible() && r.CoversAny(adjacent)
	})
	if len(pool) == 0 {
		return nil
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Performance.ConversionRate > pool[j].Performance.ConversionRate
	})

	winner := pool[0]
	return &domain.Assignment{
		LeadID:          lead.LeadID,
		AssignedTo:      winner.ID,
		AssignedBy:      domain.AssignedBySystem,
		Reason:          fmt.Sprintf("geographic fallback: no direct rule matched, assigned from territory adjacent to %s", lead.Territory),
		Timestamp:       now,
		Territory:       lead.Territory,
		AlternativeReps: alternatives(pool),
	}
}

// alternatives returns up to two runner-up rep IDs after the winner.
func alternatives(candidates []domain.SalesRep) []uuid.UUID {
	out := make([]uuid.UUID, 0, maxAlternatives)
	for _, rep := range candidates[1:] {
		if len(out) == maxAlternatives {
			break
		}
		out = append(out, rep.ID)
	}
	return out
}

// assignmentAge treats a rep who has never been assigned as infinitely
// overdue, so they sort ahead of everyone in the round-robin ordering.
func assignmentAge(rep domain.SalesRep) time.Time {
	if rep.LastAssignment == nil {
		return time.Time{}
	}
	return *rep.LastAssignment
}

func filter(reps []domain.SalesRep, keep func(domain.SalesRep) bool) []domain.SalesRep {
	out := make([]domain.SalesRep, 0, len(reps))
	for _, rep := range reps {
		if keep(rep) {
			out = append(out, rep)
		}
	}
	return out
}
