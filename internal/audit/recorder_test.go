package audit_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/internal/audit"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

// fakeExecer captures writes and optionally fails them.
type fakeExecer struct {
	execs []capturedExec
	err   error
}

type capturedExec struct {
	sql  string
	args []any
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, capturedExec{sql: sql, args: args})
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestRecorderRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("writes actor and message", func(t *testing.T) {
		db := &fakeExecer{}
		rec := audit.NewRecorder()
		actor := uuid.New()

		rec.Record(ctx, db, actor, "deleting customer")

		require.Len(t, db.execs, 1)
		assert.Contains(t, db.execs[0].sql, "INSERT INTO audit_log")
		assert.Equal(t, []any{actor, "deleting customer"}, db.execs[0].args)
		assert.Zero(t, rec.Dropped())
	})

	t.Run("zero actor becomes system sentinel", func(t *testing.T) {
		db := &fakeExecer{}
		rec := audit.NewRecorder()

		rec.Record(ctx, db, uuid.Nil, "resolving caller")

		require.Len(t, db.execs, 1)
		assert.Equal(t, audit.SystemActor(), db.execs[0].args[0])
	})

	t.Run("sentinel is configurable", func(t *testing.T) {
		sentinel := uuid.New()
		db := &fakeExecer{}
		rec := audit.NewRecorder(audit.WithSystemActor(sentinel))

		rec.Record(ctx, db, uuid.Nil, "resolving caller")

		require.Len(t, db.execs, 1)
		assert.Equal(t, sentinel, db.execs[0].args[0])
	})

	t.Run("long messages are truncated", func(t *testing.T) {
		db := &fakeExecer{}
		rec := audit.NewRecorder()

		rec.Record(ctx, db, uuid.New(), strings.Repeat("x", 1000))

		require.Len(t, db.execs, 1)
		assert.Len(t, db.execs[0].args[1], audit.MaxMessageLen)
	})

	t.Run("truncation never splits a rune", func(t *testing.T) {
		db := &fakeExecer{}
		rec := audit.NewRecorder()

		// 200 two-byte runes put a rune straddle exactly at the byte limit.
		rec.Record(ctx, db, uuid.New(), "creating customer {"+strings.Repeat("é", 200)+"}")

		require.Len(t, db.execs, 1)
		msg, ok := db.execs[0].args[1].(string)
		require.True(t, ok)
		assert.LessOrEqual(t, len(msg), audit.MaxMessageLen)
		assert.True(t, utf8.ValidString(msg))
	})

	t.Run("write failure is swallowed and counted", func(t *testing.T) {
		var buf bytes.Buffer
		db := &fakeExecer{err: errors.New("connection reset")}
		rec := audit.NewRecorder(audit.WithLogger(logger.New(logger.WithOutput(&buf))))

		assert.NotPanics(t, func() {
			rec.Record(ctx, db, uuid.New(), "doomed write")
			rec.Record(ctx, db, uuid.New(), "another doomed write")
		})

		assert.Equal(t, uint64(2), rec.Dropped())
		assert.Contains(t, buf.String(), "audit write dropped")
	})
}
