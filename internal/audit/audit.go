// Package audit appends immutable entries to the audit log. Entries are never
// updated or deleted; ordering is the insertion order of the bigserial id.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// SystemActor returns the well-known sentinel recorded when no acting
// principal is available (startup tasks, credential resolution before
// authentication).
func SystemActor() uuid.UUID {
	return uuid.Nil
}

// MaxMessageLen bounds audit messages; longer messages are truncated, not
// rejected, so an oversized message can never suppress the entry itself.
const MaxMessageLen = 255

// Entry is one immutable audit log row.
type Entry struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Actor     uuid.UUID `json:"actor"`
	Message   string    `json:"message"`
}
