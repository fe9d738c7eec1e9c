package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNextStage(t *testing.T) {
	tests := []struct {
		name    string
		lead    Lead
		score   int
		current Stage
		want    Stage
	}{
		{"signed up becomes customer", Lead{SignedUp: true}, 10, StageNew, StageCustomer},
		{"high score and interest reaches opportunity", Lead{InterestLevel: 4}, 85, StageQualified, StageOpportunity},
		{"high score without interest stays qualified band", Lead{InterestLevel: 2}, 85, StageNew, StageQualified},
		{"mid score reaches qualified", Lead{InterestLevel: 1}, 60, StageNew, StageQualified},
		{"package seen reaches contacted", Lead{PackageSeen: true}, 10, StageNew, StageContacted},
		{"interest three reaches contacted", Lead{InterestLevel: 3}, 0, StageNew, StageContacted},
		{"cold lead stays new", Lead{InterestLevel: 1}, 5, StageNew, StageNew},
		{"customer is sticky", Lead{InterestLevel: 5}, 100, StageCustomer, StageCustomer},
		{"lost is sticky even when signed up", Lead{SignedUp: true}, 100, StageLost, StageLost},
		{"score drop does not demote", Lead{InterestLevel: 1}, 10, StageOpportunity, StageOpportunity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NextStage(tc.lead, tc.score, tc.current)
			if got != tc.want {
				t.Errorf("NextStage(score=%d, current=%s) = %s, want %s", tc.score, tc.current, got, tc.want)
			}
		})
	}
}

func TestNextStageIdempotent(t *testing.T) {
	lead := Lead{InterestLevel: 4, PackageSeen: true}
	first := NextStage(lead, 85, StageContacted)
	second := NextStage(lead, 85, StageContacted)
	if first != second {
		t.Fatalf("NextStage not idempotent: %s then %s", first, second)
	}
	// Applying the resolved stage and resolving again is a fixed point.
	if again := NextStage(lead, 85, first); again != first {
		t.Fatalf("NextStage(%s) = %s, expected fixed point", first, again)
	}
}

func TestWorkflowApplyStage(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	w := NewWorkflow(uuid.New(), now)

	if changed := w.ApplyStage(StageNew, now); changed {
		t.Fatal("no-op transition should not report a change")
	}
	if len(w.StageHistory) != 1 {
		t.Fatalf("no-op transition appended history: %d entries", len(w.StageHistory))
	}

	later := now.Add(time.Hour)
	if changed := w.ApplyStage(StageContacted, later); !changed {
		t.Fatal("expected transition to contacted")
	}
	if w.CurrentStage != StageContacted {
		t.Fatalf("CurrentStage = %s, want contacted", w.CurrentStage)
	}

	last := w.StageHistory[len(w.StageHistory)-1]
	if last.To != w.CurrentStage {
		t.Fatalf("history invariant broken: last.To = %s, current = %s", last.To, w.CurrentStage)
	}
	if last.From != StageNew || !last.At.Equal(later) {
		t.Fatalf("unexpected transition entry: %+v", last)
	}

	// Repeated apply with the same target must not duplicate history.
	if w.ApplyStage(StageContacted, later.Add(time.Minute)) {
		t.Fatal("repeated apply appended a duplicate transition")
	}
	if len(w.StageHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(w.StageHistory))
	}
}

func TestWorkflowTerminalSticky(t *testing.T) {
	now := time.Now().UTC()
	w := NewWorkflow(uuid.New(), now)
	w.ApplyStage(StageLost, now.Add(time.Minute))

	if w.ApplyStage(StageQualified, now.Add(time.Hour)) {
		t.Fatal("automated apply moved a lost workflow")
	}
	if w.CurrentStage != StageLost {
		t.Fatalf("CurrentStage = %s, want lost", w.CurrentStage)
	}

	// A manual override is allowed to reopen.
	if !w.ForceStage(StageQualified, now.Add(2*time.Hour)) {
		t.Fatal("manual override should move a terminal workflow")
	}
	if w.CurrentStage != StageQualified {
		t.Fatalf("CurrentStage = %s after override, want qualified", w.CurrentStage)
	}
}

func TestWorkflowTimeInCurrentStage(t *testing.T) {
	start := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	w := NewWorkflow(uuid.New(), start)
	w.ApplyStage(StageContacted, start.Add(24*time.Hour))

	now := start.Add(4 * 24 * time.Hour)
	if got := w.TimeInCurrentStage(now); got != 3*24*time.Hour {
		t.Fatalf("TimeInCurrentStage = %s, want 72h", got)
	}
}

func TestStageProperties(t *testing.T) {
	for _, s := range []Stage{StageNew, StageContacted, StageQualified, StageOpportunity, StageCustomer, StageLost} {
		if !s.Known() {
			t.Errorf("stage %s should be known", s)
		}
	}
	if Stage("archived").Known() {
		t.Error("unknown stage reported as known")
	}
	if !StageCustomer.Terminal() || !StageLost.Terminal() {
		t.Error("customer and lost must be terminal")
	}
	if StageOpportunity.Terminal() {
		t.Error("opportunity must not be terminal")
	}
	if StageNew.Rank() >= StageContacted.Rank() || StageContacted.Rank() >= StageQualified.Rank() ||
		StageQualified.Rank() >= StageOpportunity.Rank() || StageOpportunity.Rank() >= StageCustomer.Rank() {
		t.Error("forward pipeline ordering broken")
	}
}
