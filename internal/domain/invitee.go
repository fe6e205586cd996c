package domain

import (
	"fmt"
	"strings"
)

type InviteeID string

type Invitee struct {
	ID        InviteeID
	Name      string
	Tolerance Tolerance
	// ShotsTaken holds seconds since session start, oldest first.
	ShotsTaken []int64
}

func NewInviteeID(session SessionID, faceID int) InviteeID {
	return InviteeID(fmt.Sprintf("%s_%d", session, faceID))
}

// SessionID returns the session part of the identifier, or "" when the
// identifier is not session-scoped.
func (id InviteeID) SessionID() SessionID {
	idx := strings.LastIndex(string(id), "_")
	if idx <= 0 {
		return ""
	}

	return SessionID(string(id)[:idx])
}

func (i Invitee) Validate() error {
	if strings.TrimSpace(string(i.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !i.Tolerance.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidTolerance, i.Tolerance)
	}

	return nil
}

func (i Invitee) LastShot() (int64, bool) {
	if len(i.ShotsTaken) == 0 {
		return 0, false
	}

	return i.ShotsTaken[len(i.ShotsTaken)-1], true
}
