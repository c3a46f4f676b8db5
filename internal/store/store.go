// Package store implements data access over the shared Postgres pool. Every
// unit of work borrows one pooled connection, writes the audit entry for the
// action on that connection, runs its query, and releases the connection on
// every exit path.
package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/gatekeeper/internal/audit"
)

var (
	// ErrNotFound indicates the targeted row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrUnavailable indicates a pooled connection could not be acquired.
	ErrUnavailable = errors.New("store: database unavailable")
)

type Config struct {
	MembershipTimeout time.Duration `env:"MEMBERSHIP_TIMEOUT" envDefault:"3s"` // MembershipTimeout bounds membership existence queries; expiry fails closed.
}

// Store is the single data-access facade for customers, users, services, and
// the membership relation.
type Store struct {
	pool              *pgxpool.Pool
	audit             *audit.Recorder
	log               *slog.Logger
	membershipTimeout time.Duration
}

// New creates a Store. The recorder is mandatory: every store action is an
// audited action.
func New(pool *pgxpool.Pool, recorder *audit.Recorder, log *slog.Logger, cfg Config) *Store {
	if pool == nil {
		panic("store: pool cannot be nil")
	}
	if recorder == nil {
		panic("store: audit recorder cannot be nil")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.MembershipTimeout <= 0 {
		cfg.MembershipTimeout = 3 * time.Second
	}
	return &Store{
		pool:              pool,
		audit:             recorder,
		log:               log,
		membershipTimeout: cfg.MembershipTimeout,
	}
}

// withConn borrows a pooled connection, records the audit entry for the unit
// of work, and runs fn on the same connection. The audit write happens before
// fn regardless of fn's outcome.
func (s *Store) withConn(ctx context.Context, actor uuid.UUID, message string, fn func(conn *pgxpool.Conn) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	defer conn.Release()

	s.audit.Record(ctx, conn, actor, message)

	return fn(conn)
}
