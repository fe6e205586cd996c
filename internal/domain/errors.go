package domain

import "errors"

var (
	ErrInviteeNotFound    = errors.New("invitee not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNoFaceVisible      = errors.New("no face visible")
	ErrNoIdentifiableFace = errors.New("no identifiable face")
	ErrMarkerNotVisible   = errors.New("cup marker not visible")
	ErrInvalidTolerance   = errors.New("invalid tolerance")
	ErrInvalidShotList    = errors.New("invalid shot list")
)
