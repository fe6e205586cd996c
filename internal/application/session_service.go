package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
)

type SessionService struct {
	store  ports.InviteeStore
	events ports.EventPublisher
	clock  ports.Clock
	logger *slog.Logger
}

func NewSessionService(store ports.InviteeStore, events ports.EventPublisher, clock ports.Clock, logger *slog.Logger) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionService{
		store:  store,
		events: events,
		clock:  clock,
		logger: logger,
	}
}

// Start opens a new session at the current time and appends it to the
// session list.
func (s *SessionService) Start(ctx context.Context) (domain.Session, error) {
	session := domain.NewSession(s.clock.Now())

	if err := s.store.CreateSession(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("session started", "session", session.ID)
	publish(ctx, s.events, s.logger, domain.Event{
		Kind:      domain.EventSessionStarted,
		SessionID: session.ID,
		At:        session.StartedAt,
	})

	return session, nil
}

func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

// Status reports every invitee of a session with their cooldown state. An
// empty id selects the most recently started session.
func (s *SessionService) Status(ctx context.Context, id domain.SessionID) (SessionStatus, error) {
	session, err := s.resolve(ctx, id)
	if err != nil {
		return SessionStatus{}, err
	}

	invitees, err := s.store.ListInvitees(ctx, session.ID)
	if err != nil {
		return SessionStatus{}, fmt.Errorf("list invitees for session %s: %w", session.ID, err)
	}

	now := s.clock.Now()
	elapsed := session.Elapsed(now)

	status := SessionStatus{
		Session:     session,
		Elapsed:     elapsed,
		GeneratedAt: now,
		Invitees:    make([]InviteeStatus, 0, len(invitees)),
	}
	for _, invitee := range invitees {
		status.Invitees = append(status.Invitees, inviteeStatus(invitee, elapsed))
	}

	return status, nil
}

func (s *SessionService) resolve(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	if id != "" {
		session, err := s.store.GetSession(ctx, id)
		if err != nil {
			return domain.Session{}, fmt.Errorf("get session %s: %w", id, err)
		}
		return session, nil
	}

	sessions, err := s.List(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if len(sessions) == 0 {
		return domain.Session{}, fmt.Errorf("latest session: %w", domain.ErrSessionNotFound)
	}

	return sessions[len(sessions)-1], nil
}

func inviteeStatus(invitee domain.Invitee, elapsed int64) InviteeStatus {
	return InviteeStatus{
		Invitee:    invitee,
		ShotDue:    domain.ShotDue(invitee.Tolerance, invitee.ShotsTaken, elapsed),
		NextShotIn: domain.NextShotIn(invitee.Tolerance, invitee.ShotsTaken, elapsed),
	}
}

// publish sends an event and only logs failures; losing an event never stops
// the party.
func publish(ctx context.Context, events ports.EventPublisher, logger *slog.Logger, event domain.Event) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, event); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Warn("publish event failed", "kind", event.Kind, "error", err)
	}
}
