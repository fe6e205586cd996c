package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
)

const DefaultServeWindow = time.Second

type PartyOptions struct {
	ServeWindow  time.Duration
	RoamDuration time.Duration
	Logger       *slog.Logger
}

// Party is the serving loop: find a face, identify it, register newcomers,
// pour when the cooldown allows, then roam for a while.
type Party struct {
	sessions   *SessionService
	invitees   *InviteeService
	perception *Perception
	bartender  *Bartender
	roamer     *Roamer
	robot      ports.Robot
	events     ports.EventPublisher
	clock      ports.Clock

	serveWindow  time.Duration
	roamDuration time.Duration
	logger       *slog.Logger
}

func NewParty(
	sessions *SessionService,
	invitees *InviteeService,
	perception *Perception,
	bartender *Bartender,
	roamer *Roamer,
	robot ports.Robot,
	events ports.EventPublisher,
	clock ports.Clock,
	opts PartyOptions,
) *Party {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if opts.ServeWindow <= 0 {
		opts.ServeWindow = DefaultServeWindow
	}
	if opts.RoamDuration < 0 {
		opts.RoamDuration = 0
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Party{
		sessions:     sessions,
		invitees:     invitees,
		perception:   perception,
		bartender:    bartender,
		roamer:       roamer,
		robot:        robot,
		events:       events,
		clock:        clock,
		serveWindow:  opts.ServeWindow,
		roamDuration: opts.RoamDuration,
		logger:       opts.Logger,
	}
}

// Run starts a session and serves until ctx is done, or for the given number
// of serve-then-roam cycles when cycles is positive. The started session is
// returned even when the run stops with an error.
func (p *Party) Run(ctx context.Context, cycles int) (domain.Session, error) {
	session, err := p.sessions.Start(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	if err := p.robot.SayText(ctx, "Please drink responsibly!"); err != nil {
		return session, fmt.Errorf("opening speech: %w", err)
	}
	if err := p.robot.DriveOffCharger(ctx); err != nil {
		return session, fmt.Errorf("drive off charger: %w", err)
	}

	for cycle := 1; cycles <= 0 || cycle <= cycles; cycle++ {
		p.logger.Info("serving", "session", session.ID, "cycle", cycle)

		end := p.clock.Now().Add(p.serveWindow)
		for p.clock.Now().Before(end) {
			if err := p.ServeOnce(ctx, session); err != nil {
				return session, err
			}
		}

		p.logger.Info("roaming", "session", session.ID, "duration", p.roamDuration)
		if err := p.roamer.Roam(ctx, p.roamDuration); err != nil {
			return session, err
		}
	}

	return session, nil
}

// ServeOnce handles a single guest encounter. Guests who cannot be identified
// and pours without a visible cup are logged and skipped.
func (p *Party) ServeOnce(ctx context.Context, session domain.Session) error {
	if err := p.perception.SearchForFaces(ctx); err != nil {
		if errors.Is(err, domain.ErrNoFaceVisible) {
			p.logger.Info("nobody around", "error", err)
			return nil
		}
		return err
	}

	face, err := p.perception.IdentifyFace(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoIdentifiableFace) {
			p.logger.Warn("skipping unidentified guest", "error", err)
			return nil
		}
		return err
	}

	id := domain.NewInviteeID(session.ID, face.ID)

	first, err := p.invitees.IsFirstSighting(ctx, id)
	if err != nil {
		return err
	}
	if first {
		p.logger.Info("registering new guest", "invitee", id, "name", face.Name)
		if _, err := p.invitees.Register(ctx, id, face.Name); err != nil {
			return err
		}
	}

	invitee, err := p.invitees.Lookup(ctx, id)
	if err != nil {
		return err
	}

	elapsed := session.Elapsed(p.clock.Now())
	if !domain.ShotDue(invitee.Tolerance, invitee.ShotsTaken, elapsed) {
		wait := domain.NextShotIn(invitee.Tolerance, invitee.ShotsTaken, elapsed)
		p.logger.Info("cooling down", "invitee", id, "name", invitee.Name, "next_shot_in_s", wait)
		publish(ctx, p.events, p.logger, domain.Event{
			Kind:      domain.EventShotDeclined,
			SessionID: session.ID,
			InviteeID: id,
			Name:      invitee.Name,
			Tolerance: invitee.Tolerance,
			Shots:     len(invitee.ShotsTaken),
			At:        p.clock.Now(),
		})
		return nil
	}

	if err := p.bartender.HandOut(ctx, invitee.Name); err != nil {
		if errors.Is(err, domain.ErrMarkerNotVisible) {
			p.logger.Warn("cup not found, no shot poured", "invitee", id)
			return nil
		}
		return err
	}

	invitee, err = p.invitees.RecordShot(ctx, session, invitee)
	if err != nil {
		return err
	}
	p.logger.Info("shot poured", "invitee", id, "name", invitee.Name, "shots", len(invitee.ShotsTaken))

	return nil
}
