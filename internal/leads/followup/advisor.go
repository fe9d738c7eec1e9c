// Package followup generates stage- and fact-driven follow-up
// recommendations for the UI. Purely advisory and read-only.
package followup

import (
	"sort"
	"time"

	"salesdesk_backend/internal/leads/domain"
)

// Priority orders recommendations for display.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

// Type is the kind of follow-up action recommended.
type Type string

const (
	TypeCall    Type = "call"
	TypeEmail   Type = "email"
	TypeTask    Type = "task"
	TypeMeeting Type = "meeting"
)

// Recommendation is one advised follow-up action.
type Recommendation struct {
	ID              string   `json:"id"`
	Type            Type     `json:"type"`
	Priority        Priority `json:"priority"`
	Action          string   `json:"action"`
	Reason          string   `json:"reason"`
	SuggestedTiming string   `json:"suggestedTiming"`
	Template        string   `json:"template,omitempty"`
	Icon            string   `json:"icon"`
}

const contactedStallDays = 3

// Recommend produces 0-3 stage-specific recommendations followed by
// cross-cutting checks, sorted by priority (urgent > high > medium > low)
// with the emission order preserved within each priority.
func Recommend(w domain.Workflow, lead domain.Lead, now time.Time) []Recommendation {
	var recs []Recommendation

	switch w.CurrentStage {
	case domain.StageNew:
		recs = append(recs, Recommendation{
			ID:              "new-intro-call",
			Type:            TypeCall,
			Priority:        PriorityHigh,
			Action:          "Make an introduction call",
			Reason:          "New lead has not been contacted yet",
			SuggestedTiming: "within 24 hours",
			Template:        "intro-call",
			Icon:            "phone",
		})

	case domain.StageContacted:
		if w.TimeInCurrentStage(now) > contactedStallDays*24*time.Hour {
			recs = append(recs, Recommendation{
				ID:              "contacted-stalled-call",
				Type:            TypeCall,
				Priority:        PriorityUrgent,
				Action:          "Call to re-engage",
				Reason:          "No progress for more than 3 days after first contact",
				SuggestedTiming: "today",
				Template:        "re-engage-call",
				Icon:            "phone",
			})
		} else {
			recs = append(recs, Recommendation{
				ID:              "contacted-checkin",
				Type:            TypeEmail,
				Priority:        PriorityMedium,
				Action:          "Send a check-in email",
				Reason:          "Keep momentum after the first contact",
				SuggestedTiming: "within 2 days",
				Template:        "check-in",
				Icon:            "mail",
			})
		}

	case domain.StageQualified:
		// The original advisor declared this stage twice; only the first
		// arm was reachable, and that is the one kept here.
		if !w.Criteria.HasBudget {
			recs = append(recs, Recommendation{
				ID:              "qualified-confirm-budget",
				Type:            TypeTask,
				Priority:        PriorityHigh,
				Action:          "Confirm the available budget",
				Reason:          "Budget has not been established",
				SuggestedTiming: "before next meeting",
				Icon:            "clipboard",
			})
		}
		if !w.Criteria.HasAuthority {
			recs = append(recs, Recommendation{
				ID:              "qualified-find-authority",
				Type:            TypeTask,
				Priority:        PriorityHigh,
				Action:          "Identify the decision maker",
				Reason:          "Decision authority has not been confirmed",
				SuggestedTiming: "before next meeting",
				Icon:            "clipboard",
			})
		}
		recs = append(recs, Recommendation{
			ID:              "qualified-schedule-demo",
			Type:            TypeMeeting,
			Priority:        PriorityMedium,
			Action:          "Schedule a product demo",
			Reason:          "Qualified leads convert faster after a demo",
			SuggestedTiming: "this week",
			Icon:            "calendar",
		})

	case domain.StageOpportunity:
		recs = append(recs, Recommendation{
			ID:              "opportunity-send-proposal",
			Type:            TypeEmail,
			Priority:        PriorityHigh,
			Action:          "Send the proposal",
			Reason:          "Opportunity is ready for commercial terms",
			SuggestedTiming: "within 2 days",
			Template:        "proposal",
			Icon:            "mail",
		})
		recs = append(recs, Recommendation{
			ID:              "opportunity-close-call",
			Type:            TypeCall,
			Priority:        PriorityHigh,
			Action:          "Book a closing call",
			Reason:          "Direct conversation shortens the close",
			SuggestedTiming: "this week",
			Icon:            "phone",
		})

	case domain.StageCustomer:
		recs = append(recs, Recommendation{
			ID:              "customer-onboarding",
			Type:            TypeTask,
			Priority:        PriorityLow,
			Action:          "Kick off onboarding",
			Reason:          "New customer should be handed to onboarding",
			SuggestedTiming: "this week",
			Icon:            "clipboard",
		})

	case domain.StageLost:
		// No follow-up for lost leads; reopening is a manual decision.
	}

	// Cross-cutting checks, independent of stage.
	if lead.InterestLevel >= 4 && w.CurrentStage != domain.StageCustomer {
		recs = append(recs, Recommendation{
			ID:              "fast-track-call",
			Type:            TypeCall,
			Priority:        PriorityUrgent,
			Action:          "Fast-track with a direct call",
			Reason:          "Interest level is very high",
			SuggestedTiming: "today",
			Icon:            "phone",
		})
	}
	if w.CurrentStage == domain.StageQualified && !lead.PackageSeen {
		recs = append(recs, Recommendation{
			ID:              "share-package",
			Type:            TypeEmail,
			Priority:        PriorityHigh,
			Action:          "Share the package materials",
			Reason:          "Qualified lead has not seen the package yet",
			SuggestedTiming: "today",
			Template:        "package-materials",
			Icon:            "mail",
		})
	}
	if lead.HasMultipleStakeholders() {
		recs = append(recs, Recommendation{
			ID:              "stakeholder-alignment",
			Type:            TypeMeeting,
			Priority:        PriorityMedium,
			Action:          "Set up a stakeholder alignment meeting",
			Reason:          "Multiple decision makers are involved",
			SuggestedTiming: "this week",
			Icon:            "calendar",
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})

	return recs
}
