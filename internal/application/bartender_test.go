package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simrobot "github.com/bnema/shotbot/internal/adapters/robot/sim"
	"github.com/bnema/shotbot/internal/domain"
)

func TestBartenderHandOutPoursTowardCup(t *testing.T) {
	t.Parallel()

	robot := simrobot.New(simrobot.WithMarkerFrames([]domain.MarkerPose{{X: 230, Y: 130, AngleZ: 0.4}}))
	bartender := NewBartender(robot, domain.DefaultCupMarker, domain.DefaultPourParams, nil)

	require.NoError(t, bartender.HandOut(context.Background(), "Ada"))

	assert.Equal(t, []string{
		"say: Hey Ada let's take a shot!",
		"define_marker: Circles2",
		"head_motor: 0",
		"anim: anim_referencing_squint_01",
		"anim: anim_eyecontact_squint_01",
		"lift: 0",
		"drive: 200@80",
		"turn: 60",
		"drive: 100@80",
		"lift: 2",
		"drive: -130@80",
		"say: " + shotChant,
	}, robot.Actions())
	assert.Equal(t, []domain.MarkerSpec{domain.DefaultCupMarker}, robot.DefinedMarkers())
}

func TestBartenderHandOutWithoutCup(t *testing.T) {
	t.Parallel()

	robot := simrobot.New()
	bartender := NewBartender(robot, domain.DefaultCupMarker, domain.DefaultPourParams, nil)

	err := bartender.HandOut(context.Background(), "Ada")
	require.ErrorIs(t, err, domain.ErrMarkerNotVisible)
	assert.NotContains(t, robot.Actions(), "say: "+shotChant)
	assert.NotContains(t, robot.Actions(), "lift: 2")
}

func TestBartenderRejectsInvalidPourParams(t *testing.T) {
	t.Parallel()

	robot := simrobot.New(simrobot.WithMarkerFrames([]domain.MarkerPose{{X: 100, Y: 100}}))
	bartender := NewBartender(robot, domain.DefaultCupMarker, domain.PourParams{SpeedMMPS: 0}, nil)

	err := bartender.HandOut(context.Background(), "Ada")
	require.ErrorContains(t, err, "plan pour")
}
