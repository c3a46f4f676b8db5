package authz

import (
	"context"

	"github.com/google/uuid"
)

// MembershipChecker answers whether a user belongs to a customer. It never
// returns an error: lookups fail closed, so any store failure is reported as
// "not a member". Implementations are expected to audit every invocation.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, customerID uuid.UUID) bool
}

// Gate is the single authorization entry point for request handlers.
type Gate struct {
	sets    map[Rule][]Rule
	members MembershipChecker
}

// NewGate builds a Gate over the canonical rule-set table.
func NewGate(members MembershipChecker) *Gate {
	if members == nil {
		panic("authz: membership checker cannot be nil")
	}
	return &Gate{
		sets:    newRuleSets(),
		members: members,
	}
}

// Allow reports whether caller satisfies the requested rule. The rule set is
// walked in order and the first satisfied sub-rule wins, so an admin caller
// never triggers a membership lookup. Unknown rules and a missing customer
// argument for isMember both deny.
func (g *Gate) Allow(ctx context.Context, req Request, caller Principal) bool {
	set, ok := g.sets[req.Rule]
	if !ok {
		return false
	}

	for _, sub := range set {
		switch sub {
		case RuleIsAdmin:
			if caller.Role == RoleAdmin {
				return true
			}
		case RuleIsUser:
			if caller.Role == RoleCustomer {
				return true
			}
		case RuleIsMember:
			if len(req.Args) == 0 || req.Args[0] == uuid.Nil {
				continue
			}
			if g.members.IsMember(ctx, caller.ID, req.Args[0]) {
				return true
			}
		}
	}

	return false
}
