// Package authz decides whether an authenticated principal may perform an
// action. Decisions are driven by a fixed rule-set table: each rule maps to
// the ordered list of sub-rules that satisfy it, so higher-privilege roles
// subsume lower ones in exactly one place.
package authz

import "github.com/google/uuid"

// Role is the role carried by an authenticated user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer:
		return true
	}
	return false
}

// Rule is a named authorization requirement.
type Rule string

const (
	// RuleIsAdmin passes when the caller has the admin role.
	RuleIsAdmin Rule = "isAdmin"
	// RuleIsMember passes when the caller is a member of the customer given
	// as the first request argument. Admins pass implicitly.
	RuleIsMember Rule = "isMember"
	// RuleIsUser passes when the caller has the customer role. Admins pass
	// implicitly.
	RuleIsUser Rule = "isUser"
)

// allRules enumerates every rule; the rule-set table must cover all of them.
var allRules = []Rule{RuleIsAdmin, RuleIsMember, RuleIsUser}

// Principal is a resolved, authenticated actor.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

// Request names the rule an endpoint requires plus its arguments. For
// RuleIsMember, Args[0] is the customer id the caller must belong to.
type Request struct {
	Rule Rule
	Args []uuid.UUID
}
