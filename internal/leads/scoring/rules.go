package scoring

import (
	"strings"

	"salesdesk_backend/internal/leads/domain"
)

// RuleKind identifies the condition a qualification rule evaluates.
// Rules are data, not code: each kind is dispatched by Rule.Matches, so a
// rule set can be stored, validated, and tested without closures.
type RuleKind string

const (
	// KindMinInterest matches when interestLevel >= Threshold.
	KindMinInterest RuleKind = "min_interest"
	// KindSignedUp matches when the lead has signed up.
	KindSignedUp RuleKind = "signed_up"
	// KindPackageSeen matches when the lead has viewed the package.
	KindPackageSeen RuleKind = "package_seen"
	// KindDecisionMakerNamed matches when the decisionMakers field is non-empty.
	KindDecisionMakerNamed RuleKind = "decision_maker_named"
	// KindMinQualificationScore matches when the record's qualification score
	// is already >= Threshold. Intake submissions do not carry a
	// qualification score, so this rule currently never matches; it is kept
	// as declared pending a product decision rather than silently rewired.
	KindMinQualificationScore RuleKind = "min_qualification_score"
)

// Rule is a named (condition, score) pair evaluated over the raw lead,
// independent of the BANT criteria.
type Rule struct {
	ID        string
	Name      string
	Kind      RuleKind
	Threshold int
	Score     int
}

// Matches reports whether the rule's condition holds for the lead.
func (r Rule) Matches(lead domain.Lead) bool {
	switch r.Kind {
	case KindMinInterest:
		return lead.InterestLevel >= r.Threshold
	case KindSignedUp:
		return lead.SignedUp
	case KindPackageSeen:
		return lead.PackageSeen
	case KindDecisionMakerNamed:
		return strings.TrimSpace(lead.DecisionMakers) != ""
	case KindMinQualificationScore:
		// See the kind's doc comment: the intake record has no score field.
		return false
	default:
		return false
	}
}

// DefaultRules returns the standard qualification rule set in declaration
// order. Scores stack on top of the BANT weights and are clamped by the
// scorer, never renormalized.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "high-interest", Name: "High interest level", Kind: KindMinInterest, Threshold: 4, Score: 20},
		{ID: "package-viewed", Name: "Package presentation viewed", Kind: KindPackageSeen, Score: 15},
		{ID: "signed-up", Name: "Signed up", Kind: KindSignedUp, Score: 40},
		{ID: "decision-maker-identified", Name: "Decision maker identified", Kind: KindDecisionMakerNamed, Score: 10},
		{ID: "auto-qualify-high-score", Name: "Auto-qualify high score", Kind: KindMinQualificationScore, Threshold: 80, Score: 25},
	}
}
