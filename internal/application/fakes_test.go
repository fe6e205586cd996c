package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
)

var partyStart = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	slept time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: partyStart}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	c.slept += d
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func (c *fakeClock) Slept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.slept
}

var _ ports.Clock = (*fakeClock)(nil)

type inMemoryStore struct {
	mu       sync.Mutex
	sessions []domain.Session
	invitees map[domain.InviteeID]domain.Invitee
	order    map[domain.SessionID][]domain.InviteeID
	failSave error
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{
		invitees: map[domain.InviteeID]domain.Invitee{},
		order:    map[domain.SessionID][]domain.InviteeID{},
	}
}

var _ ports.InviteeStore = (*inMemoryStore)(nil)

func (s *inMemoryStore) CreateSession(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = append(s.sessions, session)
	return nil
}

func (s *inMemoryStore) GetSession(_ context.Context, id domain.SessionID) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.ID == id {
			return session, nil
		}
	}

	return domain.Session{}, domain.ErrSessionNotFound
}

func (s *inMemoryStore) ListSessions(context.Context) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.Session(nil), s.sessions...), nil
}

func (s *inMemoryStore) Exists(_ context.Context, id domain.InviteeID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.invitees[id]
	return ok, nil
}

func (s *inMemoryStore) SaveInvitee(_ context.Context, invitee domain.Invitee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSave != nil {
		return s.failSave
	}

	session := invitee.ID.SessionID()
	if _, ok := s.invitees[invitee.ID]; !ok {
		s.order[session] = append(s.order[session], invitee.ID)
	}
	invitee.ShotsTaken = append([]int64{}, invitee.ShotsTaken...)
	s.invitees[invitee.ID] = invitee
	return nil
}

func (s *inMemoryStore) GetInvitee(_ context.Context, id domain.InviteeID) (domain.Invitee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invitee, ok := s.invitees[id]
	if !ok {
		return domain.Invitee{}, domain.ErrInviteeNotFound
	}
	invitee.ShotsTaken = append([]int64{}, invitee.ShotsTaken...)
	return invitee, nil
}

func (s *inMemoryStore) SetShots(_ context.Context, id domain.InviteeID, shots []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	invitee, ok := s.invitees[id]
	if !ok {
		return domain.ErrInviteeNotFound
	}
	invitee.ShotsTaken = append([]int64{}, shots...)
	s.invitees[id] = invitee
	return nil
}

func (s *inMemoryStore) ListInvitees(_ context.Context, session domain.SessionID) ([]domain.Invitee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invitees := make([]domain.Invitee, 0, len(s.order[session]))
	for _, id := range s.order[session] {
		invitees = append(invitees, s.invitees[id])
	}
	return invitees, nil
}

func (s *inMemoryStore) Close() error {
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Kinds() []domain.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()

	kinds := make([]domain.EventKind, 0, len(p.events))
	for _, event := range p.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

// scriptedRandom returns its values in order, modulo n, then zeros.
type scriptedRandom struct {
	values []int
	next   int
}

func (r *scriptedRandom) IntN(n int) int {
	if r.next >= len(r.values) {
		return 0
	}
	v := r.values[r.next]
	r.next++
	return v % n
}

type fixedAsker struct {
	tolerance domain.Tolerance
	err       error
	calls     int
}

func (a *fixedAsker) Ask(context.Context) (domain.Tolerance, error) {
	a.calls++
	return a.tolerance, a.err
}
