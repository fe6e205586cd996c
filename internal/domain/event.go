package domain

import "time"

type EventKind string

const (
	EventSessionStarted    EventKind = "session_started"
	EventInviteeRegistered EventKind = "invitee_registered"
	EventShotPoured        EventKind = "shot_poured"
	EventShotDeclined      EventKind = "shot_declined"
)

type Event struct {
	Kind      EventKind `json:"kind"`
	SessionID SessionID `json:"session_id"`
	InviteeID InviteeID `json:"invitee_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Tolerance Tolerance `json:"tolerance,omitempty"`
	Shots     int       `json:"shots,omitempty"`
	At        time.Time `json:"at"`
}
