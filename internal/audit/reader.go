package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PageSize is the fixed number of entries per page.
const PageSize = 50

const listEntriesSQL = `
	SELECT id, created_at, actor, message
	FROM audit_log
	ORDER BY id DESC
	LIMIT $1 OFFSET $2`

// Reader serves the paginated, newest-first audit log listing. Reading the
// log is itself an audited action, so the reader borrows a connection, records
// who listed the log, and then queries on the same connection.
type Reader struct {
	pool     *pgxpool.Pool
	recorder *Recorder
}

// NewReader creates a Reader over the shared pool.
func NewReader(pool *pgxpool.Pool, recorder *Recorder) *Reader {
	if pool == nil {
		panic("audit: pool cannot be nil")
	}
	if recorder == nil {
		panic("audit: recorder cannot be nil")
	}
	return &Reader{pool: pool, recorder: recorder}
}

// ListPage returns page (zero-based) of the audit log, newest entries first.
func (r *Reader) ListPage(ctx context.Context, page int, actor uuid.UUID) ([]Entry, error) {
	if page < 0 {
		return nil, fmt.Errorf("audit: negative page %d", page)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	r.recorder.Record(ctx, conn, actor, "listing audit log")

	rows, err := conn.Query(ctx, listEntriesSQL, PageSize, page*PageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, PageSize)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Actor, &e.Message); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
