package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
)

const shotChant = "Shot, shot, shot shot, shahshot, shot, shot shot, shahshot"

// Bartender drives the robot to the cup marker and tips the lift to serve.
type Bartender struct {
	robot  ports.Robot
	marker domain.MarkerSpec
	pour   domain.PourParams
	logger *slog.Logger
}

func NewBartender(robot ports.Robot, marker domain.MarkerSpec, pour domain.PourParams, logger *slog.Logger) *Bartender {
	if logger == nil {
		logger = slog.Default()
	}

	return &Bartender{
		robot:  robot,
		marker: marker,
		pour:   pour,
		logger: logger,
	}
}

// HandOut announces and pours a shot for name. It returns
// ErrMarkerNotVisible when the cup cannot be seen; nothing was poured then.
func (b *Bartender) HandOut(ctx context.Context, name string) error {
	if err := b.robot.SayText(ctx, "Hey "+name+" let's take a shot!"); err != nil {
		return fmt.Errorf("announce shot: %w", err)
	}

	marker, err := b.findCup(ctx)
	if err != nil {
		return err
	}

	plan, err := domain.PourPlan(marker, b.pour)
	if err != nil {
		return fmt.Errorf("plan pour: %w", err)
	}
	for _, move := range plan {
		b.logger.Debug("pour move", "move", move.String())
		if err := execute(ctx, b.robot, move); err != nil {
			return fmt.Errorf("pour %s: %w", move, err)
		}
	}

	if err := b.robot.SayText(ctx, shotChant); err != nil {
		return fmt.Errorf("chant: %w", err)
	}

	return nil
}

func (b *Bartender) findCup(ctx context.Context) (domain.MarkerPose, error) {
	if err := b.robot.DefineMarker(ctx, b.marker); err != nil {
		return domain.MarkerPose{}, fmt.Errorf("define cup marker: %w", err)
	}
	if err := b.robot.SetHeadMotor(ctx, 0); err != nil {
		return domain.MarkerPose{}, fmt.Errorf("reset head: %w", err)
	}
	if err := squint(ctx, b.robot); err != nil {
		return domain.MarkerPose{}, fmt.Errorf("look for cup: %w", err)
	}
	if err := b.robot.SetLiftMotor(ctx, 0); err != nil {
		return domain.MarkerPose{}, fmt.Errorf("reset lift: %w", err)
	}

	markers, err := b.robot.VisibleMarkers(ctx)
	if err != nil {
		return domain.MarkerPose{}, fmt.Errorf("look for cup: %w", err)
	}
	if len(markers) == 0 {
		return domain.MarkerPose{}, domain.ErrMarkerNotVisible
	}

	return markers[0], nil
}

func execute(ctx context.Context, robot ports.Robot, move domain.Move) error {
	switch move.Kind {
	case domain.MoveDrive:
		return robot.DriveStraight(ctx, move.DistanceMM, move.SpeedMMPS)
	case domain.MoveTurn:
		return robot.TurnInPlace(ctx, move.AngleDeg)
	case domain.MoveLift:
		return robot.SetLiftMotor(ctx, move.LiftSpeed)
	default:
		return fmt.Errorf("unknown move kind %q", move.Kind)
	}
}
