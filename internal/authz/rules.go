package authz

import "fmt"

// newRuleSets builds the rule-set table, the single source of truth for the
// privilege hierarchy. The isUser set deliberately excludes isMember: isUser
// call sites never supply a customer argument, so a membership sub-rule could
// never be evaluated there.
func newRuleSets() map[Rule][]Rule {
	sets := map[Rule][]Rule{
		RuleIsAdmin:  {RuleIsAdmin},
		RuleIsMember: {RuleIsAdmin, RuleIsMember},
		RuleIsUser:   {RuleIsAdmin, RuleIsUser},
	}

	// A rule without a table entry would silently deny every request using
	// it. Refuse to start instead.
	for _, r := range allRules {
		if len(sets[r]) == 0 {
			panic(fmt.Sprintf("authz: rule %q has no rule-set entry", r))
		}
	}

	return sets
}

// RuleSets returns a copy of the rule-set table, mainly for diagnostics.
func RuleSets() map[Rule][]Rule {
	sets := newRuleSets()
	out := make(map[Rule][]Rule, len(sets))
	for rule, set := range sets {
		setCopy := make([]Rule, len(set))
		copy(setCopy, set)
		out[rule] = setCopy
	}
	return out
}
