package followup

import (
	"testing"
	"time"

	"salesdesk_backend/internal/leads/domain"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC)

func workflowIn(stage domain.Stage, enteredAgo time.Duration) domain.Workflow {
	w := domain.NewWorkflow(uuid.New(), testNow.Add(-30*24*time.Hour))
	if stage != domain.StageNew {
		w.ApplyStage(stage, testNow.Add(-enteredAgo))
	}
	return *w
}

func ids(recs []Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func contains(recs []Recommendation, id string) bool {
	for _, r := range recs {
		if r.ID == id {
			return true
		}
	}
	return false
}

func TestRecommendNewLead(t *testing.T) {
	recs := Recommend(workflowIn(domain.StageNew, 0), domain.Lead{InterestLevel: 2}, testNow)
	if !contains(recs, "new-intro-call") {
		t.Fatalf("expected intro call for new lead, got %v", ids(recs))
	}
}

func TestRecommendContactedStalled(t *testing.T) {
	recs := Recommend(workflowIn(domain.StageContacted, 5*24*time.Hour), domain.Lead{}, testNow)
	if !contains(recs, "contacted-stalled-call") {
		t.Fatalf("expected urgent re-engage call, got %v", ids(recs))
	}
	if recs[0].Priority != PriorityUrgent {
		t.Fatalf("stalled call should sort first, got %v", ids(recs))
	}
	if contains(recs, "contacted-checkin") {
		t.Fatal("stalled branch must replace the check-in email")
	}
}

func TestRecommendContactedFresh(t *testing.T) {
	recs := Recommend(workflowIn(domain.StageContacted, 24*time.Hour), domain.Lead{}, testNow)
	if !contains(recs, "contacted-checkin") {
		t.Fatalf("expected check-in email, got %v", ids(recs))
	}
	if contains(recs, "contacted-stalled-call") {
		t.Fatal("fresh contact must not trigger the stalled call")
	}
}

func TestRecommendQualifiedGaps(t *testing.T) {
	w := workflowIn(domain.StageQualified, 24*time.Hour)
	// No budget, no authority set.
	recs := Recommend(w, domain.Lead{PackageSeen: true}, testNow)

	for _, want := range []string{"qualified-confirm-budget", "qualified-find-authority", "qualified-schedule-demo"} {
		if !contains(recs, want) {
			t.Errorf("missing %s in %v", want, ids(recs))
		}
	}
	if contains(recs, "share-package") {
		t.Error("package already seen, share-package should not fire")
	}
}

func TestRecommendCrossCutting(t *testing.T) {
	w := workflowIn(domain.StageQualified, 24*time.Hour)
	w.Criteria = domain.Criteria{HasBudget: true, HasAuthority: true, HasNeed: true, HasTimeline: true}
	lead := domain.Lead{InterestLevel: 5, DecisionMakers: "CEO, CTO", PackageSeen: false}

	recs := Recommend(w, lead, testNow)
	for _, want := range []string{"fast-track-call", "share-package", "stakeholder-alignment"} {
		if !contains(recs, want) {
			t.Errorf("missing %s in %v", want, ids(recs))
		}
	}
	// Urgent fast-track sorts ahead of everything else.
	if recs[0].ID != "fast-track-call" {
		t.Errorf("expected fast-track first, got %v", ids(recs))
	}
}

func TestRecommendCustomerSuppressesFastTrack(t *testing.T) {
	w := workflowIn(domain.StageCustomer, 24*time.Hour)
	recs := Recommend(w, domain.Lead{InterestLevel: 5, SignedUp: true}, testNow)
	if contains(recs, "fast-track-call") {
		t.Fatal("customers must not get fast-track calls")
	}
}

func TestRecommendLostIsQuiet(t *testing.T) {
	w := workflowIn(domain.StageLost, 24*time.Hour)
	recs := Recommend(w, domain.Lead{}, testNow)
	if len(recs) != 0 {
		t.Fatalf("lost lead should get no recommendations, got %v", ids(recs))
	}
}

func TestRecommendStableWithinPriority(t *testing.T) {
	// Two high-priority stage recommendations for opportunity keep their
	// emission order after the stable sort.
	w := workflowIn(domain.StageOpportunity, 24*time.Hour)
	recs := Recommend(w, domain.Lead{}, testNow)

	proposalIdx, closeIdx := -1, -1
	for i, r := range recs {
		switch r.ID {
		case "opportunity-send-proposal":
			proposalIdx = i
		case "opportunity-close-call":
			closeIdx = i
		}
	}
	if proposalIdx == -1 || closeIdx == -1 || proposalIdx > closeIdx {
		t.Fatalf("opportunity recommendations out of order: %v", ids(recs))
	}
}
