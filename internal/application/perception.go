package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
)

const (
	DefaultIdentifyAttempts = 3

	searchMaxTurnDeg   = 90
	searchMaxDriveMM   = 200
	searchSpeedMMPS    = 70
	searchHeadUpDeg    = 30
	searchHeadRestDeg  = 10
	searchSettle       = time.Second
	identifyHeadSpeed  = 2
	animSquintRef      = "anim_referencing_squint_01"
	animSquintEye      = "anim_eyecontact_squint_01"
	animIdentifiedFace = "anim_eyecontact_giggle_01_head_angle_40"
)

type PerceptionOptions struct {
	// IdentifyAttempts bounds IdentifyFace; values below 1 use the default.
	IdentifyAttempts int
	// SearchRounds bounds SearchForFaces; zero searches until ctx is done.
	SearchRounds int
	Random       Random
	Logger       *slog.Logger
}

type Perception struct {
	robot            ports.Robot
	clock            ports.Clock
	random           Random
	identifyAttempts int
	searchRounds     int
	logger           *slog.Logger
}

func NewPerception(robot ports.Robot, clock ports.Clock, opts PerceptionOptions) *Perception {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if opts.IdentifyAttempts < 1 {
		opts.IdentifyAttempts = DefaultIdentifyAttempts
	}
	if opts.Random == nil {
		opts.Random = globalRandom{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Perception{
		robot:            robot,
		clock:            clock,
		random:           opts.Random,
		identifyAttempts: opts.IdentifyAttempts,
		searchRounds:     opts.SearchRounds,
		logger:           opts.Logger,
	}
}

// SearchForFaces wanders randomly, looking up after each move, until at
// least one face is in view.
func (p *Perception) SearchForFaces(ctx context.Context) error {
	for round := 1; p.searchRounds == 0 || round <= p.searchRounds; round++ {
		found, err := p.searchRound(ctx)
		if err != nil {
			return fmt.Errorf("search for faces: %w", err)
		}
		if found {
			p.logger.Debug("face in view", "rounds", round)
			return nil
		}
	}

	return fmt.Errorf("search for faces after %d rounds: %w", p.searchRounds, domain.ErrNoFaceVisible)
}

func (p *Perception) searchRound(ctx context.Context) (bool, error) {
	turn := between(p.random, -searchMaxTurnDeg, searchMaxTurnDeg)
	drive := between(p.random, 0, searchMaxDriveMM)

	if err := p.robot.TurnInPlace(ctx, float64(turn)); err != nil {
		return false, err
	}
	if err := p.clock.Sleep(ctx, searchSettle); err != nil {
		return false, err
	}
	if err := p.robot.DriveStraight(ctx, float64(drive), searchSpeedMMPS); err != nil {
		return false, err
	}
	if err := p.robot.SetHeadAngle(ctx, searchHeadUpDeg); err != nil {
		return false, err
	}
	if err := p.clock.Sleep(ctx, searchSettle); err != nil {
		return false, err
	}

	faces, err := p.robot.VisibleFaces(ctx)
	if err != nil {
		return false, err
	}

	if err := p.robot.SetHeadAngle(ctx, searchHeadRestDeg); err != nil {
		return false, err
	}

	return len(faces) > 0, nil
}

// IdentifyFace picks the closest visible face that the robot knows by name.
// It gives up with ErrNoIdentifiableFace after the configured attempts.
func (p *Perception) IdentifyFace(ctx context.Context) (domain.Face, error) {
	for attempt := 1; attempt <= p.identifyAttempts; attempt++ {
		face, ok, err := p.identifyOnce(ctx)
		if err != nil {
			return domain.Face{}, fmt.Errorf("identify face: %w", err)
		}
		if ok {
			if err := p.robot.PlayAnimation(ctx, animIdentifiedFace); err != nil {
				return domain.Face{}, fmt.Errorf("identify face: %w", err)
			}
			return face, nil
		}

		p.logger.Debug("closest face not identifiable", "attempt", attempt, "face_id", face.ID)
	}

	return domain.Face{}, fmt.Errorf("identify face after %d attempts: %w", p.identifyAttempts, domain.ErrNoIdentifiableFace)
}

func (p *Perception) identifyOnce(ctx context.Context) (domain.Face, bool, error) {
	if err := p.robot.SetHeadMotor(ctx, identifyHeadSpeed); err != nil {
		return domain.Face{}, false, err
	}
	if err := squint(ctx, p.robot); err != nil {
		return domain.Face{}, false, err
	}

	pose, err := p.robot.Pose(ctx)
	if err != nil {
		return domain.Face{}, false, err
	}
	faces, err := p.robot.VisibleFaces(ctx)
	if err != nil {
		return domain.Face{}, false, err
	}

	closest, ok := domain.ClosestFace(pose, faces)
	if !ok || !closest.Named() {
		return closest, false, nil
	}

	return closest, true, nil
}

func squint(ctx context.Context, robot ports.Robot) error {
	if err := robot.PlayAnimation(ctx, animSquintRef); err != nil {
		return err
	}

	return robot.PlayAnimation(ctx, animSquintEye)
}
