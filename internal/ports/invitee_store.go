package ports

import (
	"context"

	"github.com/bnema/shotbot/internal/domain"
)

// InviteeStore is the session-scoped key-value store. Writes are plain field
// sets and list appends; nothing here is transactional.
type InviteeStore interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSession(ctx context.Context, id domain.SessionID) (domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)

	Exists(ctx context.Context, id domain.InviteeID) (bool, error)
	SaveInvitee(ctx context.Context, invitee domain.Invitee) error
	GetInvitee(ctx context.Context, id domain.InviteeID) (domain.Invitee, error)
	SetShots(ctx context.Context, id domain.InviteeID, shots []int64) error
	ListInvitees(ctx context.Context, session domain.SessionID) ([]domain.Invitee, error)

	Close() error
}
