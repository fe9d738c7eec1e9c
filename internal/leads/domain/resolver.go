package domain

// Score thresholds for stage resolution.
const (
	opportunityScoreMin    = 80
	opportunityInterestMin = 4
	qualifiedScoreMin      = 60
	contactedInterestMin   = 3
)

// NextStage computes the stage a lead should occupy given its qualification
// score and observed facts. It is a pure transition function: evaluating it
// twice over the same inputs yields the same stage. History bookkeeping for
// an accepted transition belongs to Workflow.ApplyStage.
//
// The terminal check runs before the signedUp shortcut: a lost lead that
// later signs up stays lost until a human explicitly reopens it. Automated
// evaluation never moves a lead backward; a score drop leaves the stage
// where it is rather than demoting the lead.
func NextStage(lead Lead, score int, current Stage) Stage {
	if current.Terminal() {
		return current
	}
	if lead.SignedUp {
		return StageCustomer
	}

	target := scoreBand(lead, score)
	if target.Rank() < current.Rank() {
		return current
	}
	return target
}

// scoreBand maps score and engagement facts to the stage they support,
// ignoring the lead's current position.
func scoreBand(lead Lead, score int) Stage {
	switch {
	case score >= opportunityScoreMin && lead.InterestLevel >= opportunityInterestMin:
		return StageOpportunity
	case score >= qualifiedScoreMin:
		return StageQualified
	case lead.PackageSeen || lead.InterestLevel >= contactedInterestMin:
		return StageContacted
	default:
		return StageNew
	}
}
