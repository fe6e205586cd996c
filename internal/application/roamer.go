package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bnema/shotbot/internal/ports"
)

const (
	DefaultRoamDuration = time.Minute

	lookAroundDeg     = 30
	lookAroundPause   = 3 * time.Second
	backwardsMM       = -100
	backwardsSpeed    = 80
	backwardsPause    = 2 * time.Second
	danceRounds       = 3
	danceLiftSpeed    = 5.0
	danceBeat         = 500 * time.Millisecond
	danceTurnDeg      = 90
	dancePause        = 3 * time.Second
	animationPause    = 3 * time.Second
	roamRoundCooldown = 10 * time.Second
)

// Roamer keeps the robot busy between serving windows.
type Roamer struct {
	robot  ports.Robot
	clock  ports.Clock
	random Random
	logger *slog.Logger
}

func NewRoamer(robot ports.Robot, clock ports.Clock, random Random, logger *slog.Logger) *Roamer {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if random == nil {
		random = globalRandom{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Roamer{
		robot:  robot,
		clock:  clock,
		random: random,
		logger: logger,
	}
}

// Roam plays a random animation, then repeats look-around, roam-backwards and
// dance rounds until duration has passed, and ends on another animation.
func (r *Roamer) Roam(ctx context.Context, duration time.Duration) error {
	end := r.clock.Now().Add(duration)

	if err := r.playRandomAnimation(ctx); err != nil {
		return fmt.Errorf("roam: %w", err)
	}

	for r.clock.Now().Before(end) {
		r.logger.Debug("looking around")
		if err := r.lookAround(ctx); err != nil {
			return fmt.Errorf("look around: %w", err)
		}
		r.logger.Debug("roaming backwards")
		if err := r.roamBackwards(ctx); err != nil {
			return fmt.Errorf("roam backwards: %w", err)
		}
		r.logger.Debug("dancing")
		if err := r.danceWithArms(ctx); err != nil {
			return fmt.Errorf("dance: %w", err)
		}
		if err := r.clock.Sleep(ctx, roamRoundCooldown); err != nil {
			return err
		}
	}

	if err := r.playRandomAnimation(ctx); err != nil {
		return fmt.Errorf("roam: %w", err)
	}

	return nil
}

func (r *Roamer) lookAround(ctx context.Context) error {
	if err := r.robot.TurnInPlace(ctx, -lookAroundDeg); err != nil {
		return err
	}
	if err := r.clock.Sleep(ctx, lookAroundPause); err != nil {
		return err
	}

	return r.robot.TurnInPlace(ctx, lookAroundDeg)
}

func (r *Roamer) roamBackwards(ctx context.Context) error {
	for i := 0; i < 2; i++ {
		if err := r.robot.DriveStraight(ctx, backwardsMM, backwardsSpeed); err != nil {
			return err
		}
		if err := r.robot.TurnInPlace(ctx, 180); err != nil {
			return err
		}
	}

	return r.clock.Sleep(ctx, backwardsPause)
}

func (r *Roamer) danceWithArms(ctx context.Context) error {
	for i := 0; i < danceRounds; i++ {
		if err := r.robot.SetLiftMotor(ctx, -danceLiftSpeed); err != nil {
			return err
		}
		if err := r.clock.Sleep(ctx, danceBeat); err != nil {
			return err
		}
		if err := r.robot.SetLiftMotor(ctx, danceLiftSpeed); err != nil {
			return err
		}
		if err := r.clock.Sleep(ctx, danceBeat); err != nil {
			return err
		}
		if err := r.robot.TurnInPlace(ctx, danceTurnDeg); err != nil {
			return err
		}
		if err := r.robot.SetLiftMotor(ctx, -danceLiftSpeed); err != nil {
			return err
		}
		if err := r.clock.Sleep(ctx, dancePause); err != nil {
			return err
		}
	}

	return nil
}

func (r *Roamer) playRandomAnimation(ctx context.Context) error {
	names, err := r.robot.Animations(ctx)
	if err != nil {
		return fmt.Errorf("list animations: %w", err)
	}
	if len(names) == 0 {
		r.logger.Debug("no animations available")
		return nil
	}

	name := names[r.random.IntN(len(names))]
	if err := r.robot.PlayAnimation(ctx, name); err != nil {
		return fmt.Errorf("play animation %s: %w", name, err)
	}

	return r.clock.Sleep(ctx, animationPause)
}
