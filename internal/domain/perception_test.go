package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosestFacePicksMinimumDistance(t *testing.T) {
	t.Parallel()

	robot := Position{X: 0, Y: 0, Z: 0}
	faces := []Face{
		{ID: 1, Name: "far", Position: Position{X: 500, Y: 0, Z: 0}},
		{ID: 2, Name: "near", Position: Position{X: 0, Y: 100, Z: 50}},
		{ID: 3, Name: "mid", Position: Position{X: 200, Y: 200, Z: 0}},
	}

	face, ok := ClosestFace(robot, faces)
	require.True(t, ok)
	assert.Equal(t, 2, face.ID)
}

func TestClosestFaceUsesRobotPosition(t *testing.T) {
	t.Parallel()

	faces := []Face{
		{ID: 1, Position: Position{X: 0}},
		{ID: 2, Position: Position{X: 1000}},
	}

	face, ok := ClosestFace(Position{X: 900}, faces)
	require.True(t, ok)
	assert.Equal(t, 2, face.ID)
}

func TestClosestFaceEmpty(t *testing.T) {
	t.Parallel()

	_, ok := ClosestFace(Position{}, nil)
	assert.False(t, ok)
}

func TestPourPlan(t *testing.T) {
	t.Parallel()

	moves, err := PourPlan(MarkerPose{X: 230, Y: 130, AngleZ: 0.4}, DefaultPourParams)
	require.NoError(t, err)
	assert.Equal(t, []Move{
		{Kind: MoveDrive, DistanceMM: 200, SpeedMMPS: 80},
		{Kind: MoveTurn, AngleDeg: 60},
		{Kind: MoveDrive, DistanceMM: 100, SpeedMMPS: 80},
		{Kind: MoveLift, LiftSpeed: 2},
		{Kind: MoveDrive, DistanceMM: -130, SpeedMMPS: 80},
	}, moves)
	assert.Equal(t, "drive 200mm @ 80mm/s", moves[0].String())
	assert.Equal(t, "turn 60deg", moves[1].String())
}

func TestPourPlanRejectsBadParams(t *testing.T) {
	t.Parallel()

	_, err := PourPlan(MarkerPose{}, PourParams{SpeedMMPS: 0})
	assert.ErrorContains(t, err, "speed must be positive")

	_, err = PourPlan(MarkerPose{}, PourParams{SpeedMMPS: 10, StandoffMM: -1})
	assert.ErrorContains(t, err, "standoff must not be negative")
}
