package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekeeper/internal/authz"
)

var _ authz.MembershipChecker = (*Store)(nil)

// IsMember reports whether the user is joined to the customer. The check
// fails closed: any failure, including pool exhaustion, query timeout, or a
// malformed result, is reported as "not a member" and never as an error.
// Every invocation writes one audit entry before the result is known.
func (s *Store) IsMember(ctx context.Context, userID, customerID uuid.UUID) bool {
	ctx, cancel := context.WithTimeout(ctx, s.membershipTimeout)
	defer cancel()

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "membership check failed closed: no connection",
			"error", err, "user_id", userID.String(), "customer_id", customerID.String())
		return false
	}
	defer conn.Release()

	s.audit.Record(ctx, conn, userID,
		fmt.Sprintf("testing if user {%s} is a member of customer {%s}", userID, customerID))

	var isMember bool
	err = conn.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM customer_users
			WHERE customer_id = $1 AND user_id = $2
		)`,
		customerID, userID).Scan(&isMember)
	if err != nil {
		s.log.WarnContext(ctx, "membership check failed closed: query error",
			"error", err, "user_id", userID.String(), "customer_id", customerID.String())
		return false
	}

	return isMember
}
