package domain

import "fmt"

type MoveKind string

const (
	MoveDrive MoveKind = "drive"
	MoveTurn  MoveKind = "turn"
	MoveLift  MoveKind = "lift"
)

// Move is one step of a scripted motion sequence.
type Move struct {
	Kind MoveKind
	// DistanceMM and SpeedMMPS apply to MoveDrive.
	DistanceMM float64
	SpeedMMPS  float64
	// AngleDeg applies to MoveTurn.
	AngleDeg float64
	// LiftSpeed applies to MoveLift, in radians per second.
	LiftSpeed float64
}

func (m Move) String() string {
	switch m.Kind {
	case MoveDrive:
		return fmt.Sprintf("drive %.0fmm @ %.0fmm/s", m.DistanceMM, m.SpeedMMPS)
	case MoveTurn:
		return fmt.Sprintf("turn %.0fdeg", m.AngleDeg)
	case MoveLift:
		return fmt.Sprintf("lift %.1frad/s", m.LiftSpeed)
	default:
		return string(m.Kind)
	}
}

type PourParams struct {
	StandoffMM float64
	SpeedMMPS  float64
	TurnDeg    float64
	LiftSpeed  float64
}

var DefaultPourParams = PourParams{
	StandoffMM: 30,
	SpeedMMPS:  80,
	TurnDeg:    60,
	LiftSpeed:  2,
}

// PourPlan builds the pour-and-hand-over sequence from the cup marker pose:
// approach along x, swing toward the cup, close in along y, tip the lift and
// back out the same y distance.
func PourPlan(marker MarkerPose, params PourParams) ([]Move, error) {
	if params.SpeedMMPS <= 0 {
		return nil, fmt.Errorf("pour speed must be positive, got %.1f", params.SpeedMMPS)
	}
	if params.StandoffMM < 0 {
		return nil, fmt.Errorf("pour standoff must not be negative, got %.1f", params.StandoffMM)
	}

	return []Move{
		{Kind: MoveDrive, DistanceMM: marker.X - params.StandoffMM, SpeedMMPS: params.SpeedMMPS},
		{Kind: MoveTurn, AngleDeg: params.TurnDeg},
		{Kind: MoveDrive, DistanceMM: marker.Y - params.StandoffMM, SpeedMMPS: params.SpeedMMPS},
		{Kind: MoveLift, LiftSpeed: params.LiftSpeed},
		{Kind: MoveDrive, DistanceMM: -marker.Y, SpeedMMPS: params.SpeedMMPS},
	}, nil
}
