package domain

// RuleKind identifies the assignment strategy a routing rule applies.
// Rules are tagged variants evaluated by a single dispatcher in the engine,
// so rule sets are plain data that can be stored and validated.
type RuleKind string

const (
	// KindIndustrySpecialist assigns to a rep specialized in the lead's
	// industry; the condition holds only when the lead names an industry.
	KindIndustrySpecialist RuleKind = "industry_specialist"
	// KindHighValueDeal assigns large deals to the rep with the strongest
	// big-deal track record; the condition holds when the lead's deal size
	// reaches MinDealSize.
	KindHighValueDeal RuleKind = "high_value_deal"
	// KindTerritoryMatch assigns to a rep covering the lead's territory,
	// preferring the least loaded, then the best converter.
	KindTerritoryMatch RuleKind = "territory_match"
	// KindRoundRobin assigns to the eligible rep who has waited longest
	// since their last assignment.
	KindRoundRobin RuleKind = "round_robin"
)

// Rule is one entry in the routing chain. Lower Priority is evaluated
// first; rules sharing a priority keep their declaration order.
type Rule struct {
	ID          string
	Name        string
	Description string
	Priority    int
	Kind        RuleKind
	MinDealSize float64 // only meaningful for KindHighValueDeal
}

// DefaultRules returns the standard routing chain in declaration order.
// The two priority-1 rules are intentionally tied; the stable sort in the
// engine preserves this order between them.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "industry-specialist",
			Name:        "Industry specialist match",
			Description: "route to a rep specialized in the lead's industry",
			Priority:    1,
			Kind:        KindIndustrySpecialist,
		},
		{
			ID:          "high-value-deal",
			Name:        "High-value deal specialist",
			Description: "route large deals to the strongest closer",
			Priority:    1,
			Kind:        KindHighValueDeal,
			MinDealSize: 50000,
		},
		{
			ID:          "territory-match",
			Name:        "Territory match",
			Description: "route to a rep covering the lead's territory",
			Priority:    2,
			Kind:        KindTerritoryMatch,
		},
		{
			ID:          "round-robin",
			Name:        "Round robin",
			Description: "distribute remaining leads evenly",
			Priority:    3,
			Kind:        KindRoundRobin,
		},
	}
}
