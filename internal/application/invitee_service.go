package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
)

// Asker picks a tolerance for a newly met guest.
type Asker interface {
	Ask(ctx context.Context) (domain.Tolerance, error)
}

type InviteeService struct {
	store  ports.InviteeStore
	robot  ports.Robot
	asker  Asker
	events ports.EventPublisher
	clock  ports.Clock
	logger *slog.Logger
}

func NewInviteeService(
	store ports.InviteeStore,
	robot ports.Robot,
	asker Asker,
	events ports.EventPublisher,
	clock ports.Clock,
	logger *slog.Logger,
) *InviteeService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &InviteeService{
		store:  store,
		robot:  robot,
		asker:  asker,
		events: events,
		clock:  clock,
		logger: logger,
	}
}

func (s *InviteeService) IsFirstSighting(ctx context.Context, id domain.InviteeID) (bool, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check invitee %s: %w", id, err)
	}

	return !exists, nil
}

// Register greets a guest, asks their tolerance and stores them with an empty
// shot history.
func (s *InviteeService) Register(ctx context.Context, id domain.InviteeID, name string) (domain.Invitee, error) {
	if err := s.robot.SayText(ctx, "Hello "+name+"!"); err != nil {
		return domain.Invitee{}, fmt.Errorf("greet %s: %w", name, err)
	}

	tolerance, err := s.asker.Ask(ctx)
	if err != nil {
		return domain.Invitee{}, fmt.Errorf("register %s: %w", name, err)
	}

	invitee := domain.Invitee{
		ID:         id,
		Name:       name,
		Tolerance:  tolerance,
		ShotsTaken: []int64{},
	}
	if err := invitee.Validate(); err != nil {
		return domain.Invitee{}, fmt.Errorf("register %s: %w", name, err)
	}
	if err := s.store.SaveInvitee(ctx, invitee); err != nil {
		return domain.Invitee{}, fmt.Errorf("save invitee %s: %w", id, err)
	}

	if err := s.robot.SayText(ctx, "Registered "+name+"!"); err != nil {
		return domain.Invitee{}, fmt.Errorf("confirm registration of %s: %w", name, err)
	}

	s.logger.Info("invitee registered", "invitee", id, "name", name, "tolerance", tolerance.Label())
	publish(ctx, s.events, s.logger, domain.Event{
		Kind:      domain.EventInviteeRegistered,
		SessionID: id.SessionID(),
		InviteeID: id,
		Name:      name,
		Tolerance: tolerance,
		At:        s.clock.Now(),
	})

	return invitee, nil
}

func (s *InviteeService) Lookup(ctx context.Context, id domain.InviteeID) (domain.Invitee, error) {
	invitee, err := s.store.GetInvitee(ctx, id)
	if err != nil {
		return domain.Invitee{}, fmt.Errorf("get invitee %s: %w", id, err)
	}

	return invitee, nil
}

// RecordShot appends the current session time to the invitee's history and
// writes the whole list back.
func (s *InviteeService) RecordShot(ctx context.Context, session domain.Session, invitee domain.Invitee) (domain.Invitee, error) {
	now := s.clock.Now()
	shots := make([]int64, 0, len(invitee.ShotsTaken)+1)
	shots = append(shots, invitee.ShotsTaken...)
	shots = append(shots, session.Elapsed(now))

	if err := s.store.SetShots(ctx, invitee.ID, shots); err != nil {
		return domain.Invitee{}, fmt.Errorf("record shot for %s: %w", invitee.ID, err)
	}
	invitee.ShotsTaken = shots

	publish(ctx, s.events, s.logger, domain.Event{
		Kind:      domain.EventShotPoured,
		SessionID: session.ID,
		InviteeID: invitee.ID,
		Name:      invitee.Name,
		Tolerance: invitee.Tolerance,
		Shots:     len(shots),
		At:        now,
	})

	return invitee, nil
}
