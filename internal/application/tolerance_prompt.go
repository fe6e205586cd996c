package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
)

const (
	DefaultToleranceWindow = 10 * time.Second
	DefaultButtonPoll      = 50 * time.Millisecond

	pressPause = 500 * time.Millisecond
)

// TolerancePrompt asks a guest to pick a tolerance by pressing the robot's
// button. Each press advances Weak -> Normal -> Strong and is read back.
type TolerancePrompt struct {
	robot  ports.Robot
	clock  ports.Clock
	window time.Duration
	poll   time.Duration
}

func NewTolerancePrompt(robot ports.Robot, clock ports.Clock, window, poll time.Duration) *TolerancePrompt {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if window <= 0 {
		window = DefaultToleranceWindow
	}
	if poll <= 0 {
		poll = DefaultButtonPoll
	}

	return &TolerancePrompt{
		robot:  robot,
		clock:  clock,
		window: window,
		poll:   poll,
	}
}

func (p *TolerancePrompt) Ask(ctx context.Context) (domain.Tolerance, error) {
	seconds := int(p.window / time.Second)
	prompt := fmt.Sprintf("How strong are you? Please choose by pressing my button within %d seconds!", seconds)
	if err := p.robot.SayText(ctx, prompt); err != nil {
		return 0, fmt.Errorf("ask tolerance: %w", err)
	}

	presses := 0
	if err := p.robot.SayText(ctx, domain.ToleranceFromPresses(presses).Label()); err != nil {
		return 0, fmt.Errorf("ask tolerance: %w", err)
	}

	start := p.clock.Now()
	for p.clock.Now().Sub(start) < p.window {
		pressed, err := p.robot.ButtonPressed(ctx)
		if err != nil {
			return 0, fmt.Errorf("read button: %w", err)
		}

		wait := p.poll
		if pressed {
			presses++
			if err := p.robot.SayText(ctx, domain.ToleranceFromPresses(presses).Label()); err != nil {
				return 0, fmt.Errorf("announce tolerance choice: %w", err)
			}
			wait = pressPause
		}

		if err := p.clock.Sleep(ctx, wait); err != nil {
			return 0, err
		}
	}

	tolerance := domain.ToleranceFromPresses(presses)
	if err := p.robot.SayText(ctx, "You are "+tolerance.Label()); err != nil {
		return 0, fmt.Errorf("confirm tolerance: %w", err)
	}

	return tolerance, nil
}
