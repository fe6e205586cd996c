package application

import (
	"time"

	"github.com/bnema/shotbot/internal/domain"
)

type InviteeStatus struct {
	Invitee domain.Invitee
	ShotDue bool
	// NextShotIn is the number of seconds until ShotDue turns true.
	NextShotIn int64
}

type SessionStatus struct {
	Session domain.Session
	// Elapsed is seconds since the session started, as of GeneratedAt.
	Elapsed     int64
	GeneratedAt time.Time
	Invitees    []InviteeStatus
}
