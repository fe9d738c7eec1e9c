package engine

import (
	"strings"
	"testing"
	"time"

	"salesdesk_backend/internal/routing/domain"

	"github.com/google/uuid"
)

var (
	testNow  = time.Date(2026, 4, 12, 9, 0, 0, 0, time.UTC)
	noGraph  = domain.NewTerritoryGraph(nil)
	midGraph = domain.NewTerritoryGraph(map[string][]string{
		"north": {"central"},
		"south": {"central"},
		"central": {"north", "south"},
	})
)

func rep(name, territory string, load, capacity int, conversion float64) domain.SalesRep {
	return domain.SalesRep{
		ID:           uuid.New(),
		Name:         name,
		Territories:  []string{territory},
		Availability: domain.AvailabilityAvailable,
		CurrentLoad:  load,
		MaxCapacity:  capacity,
		Performance:  domain.Performance{ConversionRate: conversion},
	}
}

func leadIn(territory string) domain.LeadProfile {
	return domain.LeadProfile{LeadID: uuid.New(), Territory: territory}
}

func TestAssignTerritoryMatchLoadRatioTieBreak(t *testing.T) {
	busy := rep("busy", "north", 18, 20, 0.4)
	idle := rep("idle", "north", 5, 20, 0.4)

	got := Assign(leadIn("north"), []domain.SalesRep{busy, idle}, domain.DefaultRules(), noGraph, testNow)
	if got == nil {
		t.Fatal("expected an assignment")
	}
	if got.AssignedTo != idle.ID {
		t.Fatalf("assigned %s, want the lower load-ratio rep", got.AssignedTo)
	}
	if len(got.AlternativeReps) != 1 || got.AlternativeReps[0] != busy.ID {
		t.Fatalf("alternatives = %v, want the runner-up", got.AlternativeReps)
	}
}

func TestAssignTerritoryMatchConversionTieBreak(t *testing.T) {
	weak := rep("weak", "north", 5, 20, 0.2)
	strong := rep("strong", "north", 5, 20, 0.6)

	got := Assign(leadIn("north"), []domain.SalesRep{weak, strong}, domain.DefaultRules(), noGraph, testNow)
	if got == nil || got.AssignedTo != strong.ID {
		t.Fatal("equal load ratios must fall back to conversion rate")
	}
}

func TestAssignNeverPicksIneligibleReps(t *testing.T) {
	full := rep("full", "north", 20, 20, 0.9)
	away := rep("away", "north", 0, 20, 0.9)
	away.Availability = domain.AvailabilityUnavailable

	got := Assign(leadIn("north"), []domain.SalesRep{full, away}, domain.DefaultRules(), noGraph, testNow)
	if got != nil {
		t.Fatalf("assigned %s despite no eligible reps", got.AssignedTo)
	}
}

func TestAssignPriorityOrderFirstMatchWins(t *testing.T) {
	first := rep("first", "north", 0, 10, 0.1)
	second := rep("second", "north", 0, 10, 0.9)

	// Two always-eligible round-robin rules; the lower priority number wins
	// even though the other rule would also succeed.
	rules := []domain.Rule{
		{ID: "r2", Name: "R2", Priority: 2, Kind: domain.KindTerritoryMatch},
		{ID: "r1", Name: "R1", Priority: 1, Kind: domain.KindRoundRobin},
	}
	// Round robin prefers never-assigned reps in roster order: "first".
	got := Assign(leadIn("north"), []domain.SalesRep{first, second}, rules, noGraph, testNow)
	if got == nil {
		t.Fatal("expected an assignment")
	}
	if !strings.HasPrefix(got.Reason, "R1") {
		t.Fatalf("reason = %q, want the priority-1 rule to win", got.Reason)
	}
}

func TestAssignSharedPriorityKeepsDeclaredOrder(t *testing.T) {
	specialist := rep("specialist", "north", 0, 10, 0.3)
	specialist.Specializations = []string{"fitness"}
	closer := rep("closer", "north", 0, 10, 0.3)
	closer.Performance.AvgDealSize = 90000

	lead := domain.LeadProfile{LeadID: uuid.New(), Territory: "north", Industry: "fitness", DealSize: 80000}

	// Both priority-1 rules match; the declared order must decide.
	got := Assign(lead, []domain.SalesRep{closer, specialist}, domain.DefaultRules(), noGraph, testNow)
	if got == nil {
		t.Fatal("expected an assignment")
	}
	if got.AssignedTo != specialist.ID {
		t.Fatalf("assigned %s, want the industry specialist (declared first at priority 1)", got.AssignedTo)
	}
}

func TestAssignHighValueDeal(t *testing.T) {
	regular := rep("regular", "north", 0, 10, 0.5)
	regular.Performance.AvgDealSize = 10000
	bigCloser := rep("big", "south", 0, 10, 0.3)
	bigCloser.Performance.AvgDealSize = 120000

	lead := domain.LeadProfile{LeadID: uuid.New(), Territory: "north", DealSize: 50000}

	got := Assign(lead, []domain.SalesRep{regular, bigCloser}, domain.DefaultRules(), noGraph, testNow)
	if got == nil || got.AssignedTo != bigCloser.ID {
		t.Fatal("deal at the 50000 threshold must route to the high-value closer")
	}
}

func TestAssignRoundRobinOldestFirst(t *testing.T) {
	older := testNow.Add(-72 * time.Hour)
	newer := testNow.Add(-2 * time.Hour)

	recent := rep("recent", "east", 0, 10, 0.9)
	recent.LastAssignment = &newer
	waiting := rep("waiting", "west", 0, 10, 0.1)
	waiting.LastAssignment = &older

	// Lead territory matches nobody, so the chain falls through to round robin.
	got := Assign(leadIn("north"), []domain.SalesRep{recent, waiting}, domain.DefaultRules(), noGraph, testNow)
	if got == nil || got.AssignedTo != waiting.ID {
		t.Fatal("round robin must pick the longest-waiting rep")
	}
}

func TestAssignRoundRobinNeverAssignedWins(t *testing.T) {
	recently := testNow.Add(-time.Hour)
	veteran := rep("veteran", "east", 0, 10, 0.9)
	veteran.LastAssignment = &recently
	fresh := rep("fresh", "west", 0, 10, 0.1)

	got := Assign(leadIn("north"), []domain.SalesRep{veteran, fresh}, domain.DefaultRules(), noGraph, testNow)
	if got == nil || got.AssignedTo != fresh.ID {
		t.Fatal("a never-assigned rep must win the round robin")
	}
}

func TestAssignGeographicFallback(t *testing.T) {
	neighbor := rep("neighbor", "central", 0, 10, 0.5)

	// No rep covers "north" and round robin is removed, so only the
	// adjacency fallback can assign.
	rules := []domain.Rule{
		{ID: "territory-match", Name: "Territory match", Priority: 2, Kind: domain.KindTerritoryMatch},
	}

	got := Assign(leadIn("north"), []domain.SalesRep{neighbor}, rules, midGraph, testNow)
	if got == nil {
		t.Fatal("expected a fallback assignment")
	}
	if got.AssignedTo != neighbor.ID {
		t.Fatalf("assigned %s, want the adjacent-territory rep", got.AssignedTo)
	}
	if !strings.Contains(got.Reason, "fallback") {
		t.Fatalf("reason = %q, must indicate the fallback", got.Reason)
	}
}

func TestAssignFallbackOnlyAfterWholeChain(t *testing.T) {
	local := rep("local", "north", 0, 10, 0.1)
	neighbor := rep("neighbor", "central", 0, 10, 0.9)

	got := Assign(leadIn("north"), []domain.SalesRep{local, neighbor}, domain.DefaultRules(), midGraph, testNow)
	if got == nil {
		t.Fatal("expected an assignment")
	}
	// The territory rule succeeds, so the better-converting neighbor must
	// not be reached through the fallback.
	if got.AssignedTo != local.ID {
		t.Fatalf("assigned %s, want the direct territory match", got.AssignedTo)
	}
	if strings.Contains(got.Reason, "fallback") {
		t.Fatalf("reason = %q, fallback must not run when a rule matched", got.Reason)
	}
}

func TestAssignFallbackSortsByConversion(t *testing.T) {
	weak := rep("weak", "central", 0, 10, 0.2)
	strong := rep("strong", "central", 0, 10, 0.8)
	third := rep("third", "central", 0, 10, 0.5)

	rules := []domain.Rule{
		{ID: "territory-match", Name: "Territory match", Priority: 2, Kind: domain.KindTerritoryMatch},
	}

	got := Assign(leadIn("south"), []domain.SalesRep{weak, strong, third}, rules, midGraph, testNow)
	if got == nil || got.AssignedTo != strong.ID {
		t.Fatal("fallback must pick the best converter")
	}
	if len(got.AlternativeReps) != 2 {
		t.Fatalf("alternatives = %v, want two runners-up", got.AlternativeReps)
	}
	if got.AlternativeReps[0] != third.ID || got.AlternativeReps[1] != weak.ID {
		t.Fatalf("alternatives out of order: %v", got.AlternativeReps)
	}
}

func TestAssignUnassignedIsNil(t *testing.T) {
	got := Assign(leadIn("island"), nil, domain.DefaultRules(), midGraph, testNow)
	if got != nil {
		t.Fatal("no reps at all must yield nil, not an error")
	}
}

func TestAssignAlternativesCapped(t *testing.T) {
	reps := []domain.SalesRep{
		rep("a", "north", 1, 10, 0.5),
		rep("b", "north", 2, 10, 0.5),
		rep("c", "north", 3, 10, 0.5),
		rep("d", "north", 4, 10, 0.5),
	}

	got := Assign(leadIn("north"), reps, domain.DefaultRules(), noGraph, testNow)
	if got == nil {
		t.Fatal("expected an assignment")
	}
	if len(got.AlternativeReps) != 2 {
		t.Fatalf("alternatives = %d, want capped at 2", len(got.AlternativeReps))
	}
}

func TestAssignmentRecordFields(t *testing.T) {
	only := rep("only", "north", 0, 10, 0.5)
	lead := leadIn("north")

	got := Assign(lead, []domain.SalesRep{only}, domain.DefaultRules(), noGraph, testNow)
	if got == nil {
		t.Fatal("expected an assignment")
	}
	if got.AssignedBy != domain.AssignedBySystem {
		t.Errorf("AssignedBy = %q, want system", got.AssignedBy)
	}
	if got.Territory != "north" {
		t.Errorf("Territory = %q, want the lead's territory", got.Territory)
	}
	if !got.Timestamp.Equal(testNow) {
		t.Errorf("Timestamp = %s, want the evaluation time", got.Timestamp)
	}
	if got.LeadID != lead.LeadID {
		t.Errorf("LeadID mismatch")
	}
}
