package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const insertEntrySQL = `INSERT INTO audit_log (actor, message) VALUES ($1, $2)`

// Execer is the write surface the recorder needs. *pgxpool.Conn, *pgxpool.Pool
// and pgx.Tx all satisfy it, so the entry lands on whichever connection the
// caller already borrowed for its unit of work.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Recorder appends audit entries. Writes are best-effort: a broken audit pipe
// must not block primary operations, so failures are swallowed, counted, and
// logged instead of propagated.
type Recorder struct {
	sentinel uuid.UUID
	log      *slog.Logger
	dropped  atomic.Uint64
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSystemActor overrides the sentinel substituted for unknown actors.
func WithSystemActor(id uuid.UUID) RecorderOption {
	return func(r *Recorder) { r.sentinel = id }
}

// WithLogger routes dropped-write warnings through the given logger.
func WithLogger(log *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRecorder creates a Recorder attributing anonymous entries to SystemActor
// unless configured otherwise.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		sentinel: SystemActor(),
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends one entry on the supplied connection. A zero actor is
// attributed to the configured system sentinel. Never returns an error.
func (r *Recorder) Record(ctx context.Context, db Execer, actor uuid.UUID, message string) {
	if actor == uuid.Nil {
		actor = r.sentinel
	}
	message = truncate(message)

	if _, err := db.Exec(ctx, insertEntrySQL, actor, message); err != nil {
		r.dropped.Add(1)
		r.log.WarnContext(ctx, "audit write dropped",
			"error", err,
			"actor", actor.String(),
			"audit_message", message,
		)
	}
}

// truncate cuts the message to at most MaxMessageLen bytes without splitting
// a multi-byte rune; a split rune is invalid UTF-8 and postgres would reject
// the whole row, dropping the entry.
func truncate(message string) string {
	if len(message) <= MaxMessageLen {
		return message
	}
	message = message[:MaxMessageLen]
	for len(message) > 0 {
		if r, size := utf8.DecodeLastRuneInString(message); r != utf8.RuneError || size > 1 {
			break
		}
		message = message[:len(message)-1]
	}
	return message
}

// Dropped reports how many writes have been swallowed since construction.
// A nonzero value means the audit trail has gaps.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}
