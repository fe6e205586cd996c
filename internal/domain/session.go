package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionID string

type Session struct {
	ID        SessionID
	StartedAt time.Time
}

// sessionNamespace scopes name-based session IDs so they never collide with
// UUIDs minted for unrelated purposes.
var sessionNamespace = uuid.MustParse("6f0d3c2e-6a0b-4f53-9a55-2c4f7e1d9b10")

// NewSession derives the session ID from the start time. The same start time
// always yields the same ID.
func NewSession(startedAt time.Time) Session {
	startedAt = startedAt.UTC()
	id := uuid.NewSHA1(sessionNamespace, []byte(startedAt.Format(time.RFC3339Nano)))

	return Session{
		ID:        SessionID(id.String()),
		StartedAt: startedAt,
	}
}

// Elapsed returns whole seconds since the session started, clamped at zero.
func (s Session) Elapsed(now time.Time) int64 {
	elapsed := int64(now.Sub(s.StartedAt) / time.Second)
	if elapsed < 0 {
		return 0
	}

	return elapsed
}
