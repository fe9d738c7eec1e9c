package probability

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"salesdesk_backend/internal/leads/domain"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC)

func workflowAt(stage domain.Stage, transitions ...domain.Stage) domain.Workflow {
	w := domain.NewWorkflow(uuid.MustParse("7b5a1f3c-0000-4000-8000-000000000001"), testNow.Add(-30*24*time.Hour))
	at := w.CreatedAt
	for _, s := range transitions {
		at = at.Add(time.Hour)
		w.ApplyStage(s, at)
	}
	if w.CurrentStage != stage {
		panic("test setup: workflow did not reach expected stage")
	}
	return *w
}

func TestEstimateStageBase(t *testing.T) {
	tests := []struct {
		stage       domain.Stage
		transitions []domain.Stage
		wantBase    int
	}{
		{domain.StageNew, nil, 5},
		{domain.StageContacted, []domain.Stage{domain.StageContacted}, 15},
		{domain.StageQualified, []domain.Stage{domain.StageContacted, domain.StageQualified}, 35},
		{domain.StageOpportunity, []domain.Stage{domain.StageContacted, domain.StageQualified, domain.StageOpportunity}, 65},
		{domain.StageCustomer, []domain.Stage{domain.StageContacted, domain.StageCustomer}, 95},
		{domain.StageLost, []domain.Stage{domain.StageLost}, 0},
	}

	for _, tc := range tests {
		t.Run(string(tc.stage), func(t *testing.T) {
			w := workflowAt(tc.stage, tc.transitions...)
			got := Estimate(w, domain.Lead{}, testNow)
			if got.BaseScore != tc.wantBase {
				t.Errorf("BaseScore = %d, want %d", got.BaseScore, tc.wantBase)
			}
		})
	}
}

func TestEstimatePure(t *testing.T) {
	w := workflowAt(domain.StageQualified, domain.StageContacted, domain.StageQualified)
	w.QualificationScore = 72
	w.Criteria = domain.Criteria{HasBudget: true, HasNeed: true}
	lead := domain.Lead{InterestLevel: 4, PackageSeen: true, DecisionMakers: "COO, CFO"}

	first := Estimate(w, lead, testNow)
	second := Estimate(w, lead, testNow)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Estimate is not pure:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestEstimateClamp(t *testing.T) {
	// Customer base 95 plus every bonus must clamp at 100.
	w := workflowAt(domain.StageCustomer, domain.StageContacted, domain.StageQualified, domain.StageCustomer)
	w.QualificationScore = 95
	months := 2
	w.Criteria = domain.Criteria{
		HasBudget: true, HasAuthority: true, HasNeed: true, HasTimeline: true,
		BudgetRange:    &domain.BudgetRange{Min: 50000, Max: 250000},
		TimelineMonths: &months,
	}
	w.PreviousCustomer = true
	w.Referred = true
	lead := domain.Lead{
		InterestLevel:  5,
		PackageSeen:    true,
		DecisionMakers: "CEO, CFO",
		SpecificNeeds:  strings.Repeat("expansion plans ", 5),
	}

	got := Estimate(w, lead, testNow)
	if got.FinalProbability != 100 {
		t.Fatalf("FinalProbability = %d, want 100 (clamped)", got.FinalProbability)
	}
	if got.Penalties != 0 {
		t.Fatalf("Penalties = %d, want 0", got.Penalties)
	}
}

func TestEstimatePenalties(t *testing.T) {
	w := workflowAt(domain.StageContacted, domain.StageContacted)
	// Entered contacted ~30 days ago: the stall penalty applies.
	got := Estimate(w, domain.Lead{}, testNow)

	// no budget (8) + no authority (6) + stalled (10)
	if got.Penalties != 24 {
		t.Fatalf("Penalties = %d, want 24", got.Penalties)
	}

	stallInsight := false
	for _, s := range got.Insights {
		if strings.Contains(s, "Stalled in contacted") {
			stallInsight = true
		}
	}
	if !stallInsight {
		t.Fatalf("expected stall insight, got %v", got.Insights)
	}
}

func TestEstimateNoStallPenaltyWhenFresh(t *testing.T) {
	w := domain.NewWorkflow(uuid.New(), testNow.Add(-48*time.Hour))
	w.ApplyStage(domain.StageContacted, testNow.Add(-24*time.Hour))

	got := Estimate(*w, domain.Lead{}, testNow)
	// Only the budget and authority penalties remain.
	if got.Penalties != 14 {
		t.Fatalf("Penalties = %d, want 14", got.Penalties)
	}
}

func TestEstimateConfidence(t *testing.T) {
	tests := []struct {
		name string
		w    domain.Workflow
		want Confidence
	}{
		{
			"long history and strong BANT",
			func() domain.Workflow {
				w := workflowAt(domain.StageQualified, domain.StageContacted, domain.StageQualified)
				w.Criteria = domain.Criteria{HasBudget: true, HasAuthority: true, HasNeed: true}
				return w
			}(),
			ConfidenceHigh,
		},
		{
			"some history and partial BANT",
			func() domain.Workflow {
				w := workflowAt(domain.StageContacted, domain.StageContacted)
				w.Criteria = domain.Criteria{HasBudget: true, HasNeed: true}
				return w
			}(),
			ConfidenceMedium,
		},
		{
			"fresh workflow",
			workflowAt(domain.StageNew),
			ConfidenceLow,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Estimate(tc.w, domain.Lead{}, testNow)
			if got.Confidence != tc.want {
				t.Errorf("Confidence = %s, want %s", got.Confidence, tc.want)
			}
		})
	}
}

func TestEstimateHeadlineBands(t *testing.T) {
	tests := []struct {
		stage       domain.Stage
		transitions []domain.Stage
		wantPrefix  string
	}{
		{domain.StageLost, []domain.Stage{domain.StageLost}, "Cold lead"},
		{domain.StageQualified, []domain.Stage{domain.StageContacted, domain.StageQualified}, "Nurture candidate"},
	}

	for _, tc := range tests {
		w := workflowAt(tc.stage, tc.transitions...)
		w.Criteria = domain.Criteria{HasBudget: true, HasAuthority: true}
		got := Estimate(w, domain.Lead{InterestLevel: 3}, testNow)
		if len(got.Insights) == 0 || !strings.HasPrefix(got.Insights[0], tc.wantPrefix) {
			t.Errorf("stage %s: headline = %q, want prefix %q (probability %d)",
				tc.stage, got.Insights[0], tc.wantPrefix, got.FinalProbability)
		}
	}
}

func TestEstimateInsightOrder(t *testing.T) {
	w := workflowAt(domain.StageQualified, domain.StageContacted, domain.StageQualified)
	w.QualificationScore = 85
	w.Criteria = domain.Criteria{HasBudget: true, HasAuthority: true, HasNeed: true, HasTimeline: true}
	lead := domain.Lead{InterestLevel: 4, PackageSeen: true}

	got := Estimate(w, lead, testNow)
	if len(got.Insights) < 4 {
		t.Fatalf("expected headline plus factors, got %v", got.Insights)
	}
	// Headline first, then factors in evaluation order: quality before engagement.
	if got.Insights[1] != "Excellent qualification score" {
		t.Errorf("Insights[1] = %q, want quality factor first", got.Insights[1])
	}
	if got.Insights[2] != "All BANT criteria confirmed" {
		t.Errorf("Insights[2] = %q, want BANT factor second", got.Insights[2])
	}
}
