package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

const (
	sessionListKey = "session_list"

	fieldName       = "name"
	fieldStrength   = "strength"
	fieldShotsTaken = "shots_taken"
	fieldStartedAt  = "started_at"
)

type Options struct {
	Host        string
	Port        int
	Password    string
	DB          int
	TLS         bool
	DialTimeout time.Duration
}

// Store keeps one hash per invitee (name, strength, shots_taken) keyed by the
// invitee ID, plus a session list and per-session invitee index.
type Store struct {
	client *goredis.Client
}

var _ ports.InviteeStore = (*Store)(nil)

func NewStore(opts Options) (*Store, error) {
	if opts.Host == "" {
		return nil, errors.New("redis host is empty")
	}
	if opts.Port == 0 {
		opts.Port = 6380
	}

	redisOpts := &goredis.Options{
		Addr:        net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	}
	if opts.TLS {
		redisOpts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: opts.Host,
		}
	}

	return &Store{client: goredis.NewClient(redisOpts)}, nil
}

func newStoreWithClient(client *goredis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) CreateSession(ctx context.Context, session domain.Session) error {
	if err := s.client.HSet(ctx, sessionKey(session.ID), fieldStartedAt, session.StartedAt.UTC().Format(time.RFC3339Nano)).Err(); err != nil {
		return fmt.Errorf("write session %s: %w", session.ID, err)
	}
	if err := s.client.RPush(ctx, sessionListKey, string(session.ID)).Err(); err != nil {
		return fmt.Errorf("append session %s: %w", session.ID, err)
	}

	return nil
}

func (s *Store) GetSession(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	raw, err := s.client.HGet(ctx, sessionKey(id), fieldStartedAt).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.Session{}, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
		}
		return domain.Session{}, fmt.Errorf("read session %s: %w", id, err)
	}

	startedAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return domain.Session{}, fmt.Errorf("decode session %s start time: %w", id, err)
	}

	return domain.Session{ID: id, StartedAt: startedAt}, nil
}

func (s *Store) ListSessions(ctx context.Context) ([]domain.Session, error) {
	ids, err := s.client.LRange(ctx, sessionListKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]domain.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.GetSession(ctx, domain.SessionID(id))
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				// Sessions written before start times were recorded.
				sessions = append(sessions, domain.Session{ID: domain.SessionID(id)})
				continue
			}
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (s *Store) Exists(ctx context.Context, id domain.InviteeID) (bool, error) {
	n, err := s.client.Exists(ctx, string(id)).Result()
	if err != nil {
		return false, fmt.Errorf("check invitee %s: %w", id, err)
	}

	return n > 0, nil
}

func (s *Store) SaveInvitee(ctx context.Context, invitee domain.Invitee) error {
	existed, err := s.Exists(ctx, invitee.ID)
	if err != nil {
		return err
	}

	err = s.client.HSet(ctx, string(invitee.ID),
		fieldName, invitee.Name,
		fieldStrength, strconv.Itoa(int(invitee.Tolerance)),
		fieldShotsTaken, domain.EncodeShots(invitee.ShotsTaken),
	).Err()
	if err != nil {
		return fmt.Errorf("write invitee %s: %w", invitee.ID, err)
	}

	if session := invitee.ID.SessionID(); session != "" && !existed {
		if err := s.client.RPush(ctx, inviteesKey(session), string(invitee.ID)).Err(); err != nil {
			return fmt.Errorf("index invitee %s: %w", invitee.ID, err)
		}
	}

	return nil
}

func (s *Store) GetInvitee(ctx context.Context, id domain.InviteeID) (domain.Invitee, error) {
	fields, err := s.client.HGetAll(ctx, string(id)).Result()
	if err != nil {
		return domain.Invitee{}, fmt.Errorf("read invitee %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domain.Invitee{}, fmt.Errorf("invitee %s: %w", id, domain.ErrInviteeNotFound)
	}

	return decodeInvitee(id, fields)
}

func (s *Store) SetShots(ctx context.Context, id domain.InviteeID, shots []int64) error {
	if err := s.client.HSet(ctx, string(id), fieldShotsTaken, domain.EncodeShots(shots)).Err(); err != nil {
		return fmt.Errorf("write shots for invitee %s: %w", id, err)
	}

	return nil
}

func (s *Store) ListInvitees(ctx context.Context, session domain.SessionID) ([]domain.Invitee, error) {
	ids, err := s.client.LRange(ctx, inviteesKey(session), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list invitees for session %s: %w", session, err)
	}

	invitees := make([]domain.Invitee, 0, len(ids))
	for _, id := range ids {
		invitee, err := s.GetInvitee(ctx, domain.InviteeID(id))
		if err != nil {
			return nil, err
		}
		invitees = append(invitees, invitee)
	}

	return invitees, nil
}

func decodeInvitee(id domain.InviteeID, fields map[string]string) (domain.Invitee, error) {
	name, ok := fields[fieldName]
	if !ok {
		return domain.Invitee{}, missingField(id, fieldName)
	}
	rawStrength, ok := fields[fieldStrength]
	if !ok {
		return domain.Invitee{}, missingField(id, fieldStrength)
	}
	rawShots, ok := fields[fieldShotsTaken]
	if !ok {
		return domain.Invitee{}, missingField(id, fieldShotsTaken)
	}

	tolerance, err := domain.ParseTolerance(rawStrength)
	if err != nil {
		return domain.Invitee{}, fmt.Errorf("decode invitee %s strength: %w", id, err)
	}

	shots, err := domain.DecodeShots(rawShots)
	if err != nil {
		return domain.Invitee{}, fmt.Errorf("decode invitee %s shots: %w", id, err)
	}

	return domain.Invitee{
		ID:         id,
		Name:       name,
		Tolerance:  tolerance,
		ShotsTaken: shots,
	}, nil
}

func missingField(id domain.InviteeID, field string) error {
	return fmt.Errorf("invitee %s is missing field %q", id, field)
}

func sessionKey(id domain.SessionID) string {
	return "session:" + string(id)
}

func inviteesKey(id domain.SessionID) string {
	return "session:" + string(id) + ":invitees"
}
