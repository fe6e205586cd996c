package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	PathKey = "store.path"

	storeFileMode   = 0o600
	storeDirMode    = 0o700
	storeConfigDir  = ".shotbot"
	storeConfigFile = "sessions.toml"
	tempFilePattern = ".sessions-*.toml.tmp"
)

// Store keeps sessions and invitees in a single TOML file. It is the offline
// counterpart of the redis store.
type Store struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.InviteeStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(PathKey, filepath.Join(homeDir, storeConfigDir, storeConfigFile))

	path := cfg.GetString(PathKey)
	if path == "" {
		return nil, errors.New("sessions path is empty")
	}
	path, err = normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Store{path: path, mu: lockForPath(path)}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) CreateSession(ctx context.Context, session domain.Session) error {
	return s.update(ctx, func(file *fileSchema) error {
		file.Sessions = append(file.Sessions, sessionSchema{
			ID:        string(session.ID),
			StartedAt: formatTime(session.StartedAt),
		})
		return nil
	})
}

func (s *Store) GetSession(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	file, err := s.read(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	for _, entry := range file.Sessions {
		if entry.ID == string(id) {
			return fromSessionSchema(entry)
		}
	}

	return domain.Session{}, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
}

func (s *Store) ListSessions(ctx context.Context) ([]domain.Session, error) {
	file, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.Session, 0, len(file.Sessions))
	for _, entry := range file.Sessions {
		session, err := fromSessionSchema(entry)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (s *Store) Exists(ctx context.Context, id domain.InviteeID) (bool, error) {
	file, err := s.read(ctx)
	if err != nil {
		return false, err
	}

	_, ok := findInvitee(file, id)
	return ok, nil
}

func (s *Store) SaveInvitee(ctx context.Context, invitee domain.Invitee) error {
	return s.update(ctx, func(file *fileSchema) error {
		encoded := toInviteeSchema(invitee)
		if idx, ok := findInvitee(*file, invitee.ID); ok {
			file.Invitees[idx] = encoded
			return nil
		}
		file.Invitees = append(file.Invitees, encoded)
		return nil
	})
}

func (s *Store) GetInvitee(ctx context.Context, id domain.InviteeID) (domain.Invitee, error) {
	file, err := s.read(ctx)
	if err != nil {
		return domain.Invitee{}, err
	}

	idx, ok := findInvitee(file, id)
	if !ok {
		return domain.Invitee{}, fmt.Errorf("invitee %s: %w", id, domain.ErrInviteeNotFound)
	}

	return fromInviteeSchema(file.Invitees[idx])
}

func (s *Store) SetShots(ctx context.Context, id domain.InviteeID, shots []int64) error {
	return s.update(ctx, func(file *fileSchema) error {
		idx, ok := findInvitee(*file, id)
		if !ok {
			return fmt.Errorf("invitee %s: %w", id, domain.ErrInviteeNotFound)
		}
		file.Invitees[idx].ShotsTaken = domain.EncodeShots(shots)
		return nil
	})
}

func (s *Store) ListInvitees(ctx context.Context, session domain.SessionID) ([]domain.Invitee, error) {
	file, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	invitees := make([]domain.Invitee, 0)
	for _, entry := range file.Invitees {
		if entry.Session != string(session) {
			continue
		}
		invitee, err := fromInviteeSchema(entry)
		if err != nil {
			return nil, err
		}
		invitees = append(invitees, invitee)
	}

	return invitees, nil
}

func (s *Store) read(ctx context.Context) (fileSchema, error) {
	if err := ctx.Err(); err != nil {
		return fileSchema{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readSchema()
}

func (s *Store) update(ctx context.Context, mutate func(*fileSchema) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}

	if err := mutate(&file); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.writeSchema(file)
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read sessions file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode sessions file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.path), storeDirMode); err != nil {
		return fmt.Errorf("create sessions directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode sessions file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp sessions file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp sessions file: %w", err)
	}

	if err := tempFile.Chmod(storeFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp sessions file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp sessions file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace sessions file: %w", err)
	}

	cleanup = false

	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve sessions path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func findInvitee(file fileSchema, id domain.InviteeID) (int, bool) {
	for i, entry := range file.Invitees {
		if entry.ID == string(id) {
			return i, true
		}
	}

	return -1, false
}

func toInviteeSchema(invitee domain.Invitee) inviteeSchema {
	return inviteeSchema{
		ID:         string(invitee.ID),
		Session:    string(invitee.ID.SessionID()),
		Name:       invitee.Name,
		Strength:   int(invitee.Tolerance),
		ShotsTaken: domain.EncodeShots(invitee.ShotsTaken),
	}
}

func fromInviteeSchema(entry inviteeSchema) (domain.Invitee, error) {
	tolerance := domain.Tolerance(entry.Strength)
	if !tolerance.Valid() {
		return domain.Invitee{}, fmt.Errorf("decode invitee %s strength: %w: %d", entry.ID, domain.ErrInvalidTolerance, entry.Strength)
	}

	shots, err := domain.DecodeShots(entry.ShotsTaken)
	if err != nil {
		return domain.Invitee{}, fmt.Errorf("decode invitee %s shots: %w", entry.ID, err)
	}

	return domain.Invitee{
		ID:         domain.InviteeID(entry.ID),
		Name:       entry.Name,
		Tolerance:  tolerance,
		ShotsTaken: shots,
	}, nil
}

func fromSessionSchema(entry sessionSchema) (domain.Session, error) {
	startedAt, err := parseTime(entry.StartedAt)
	if err != nil {
		return domain.Session{}, fmt.Errorf("decode session %s start time: %w", entry.ID, err)
	}

	return domain.Session{
		ID:        domain.SessionID(entry.ID),
		StartedAt: startedAt,
	}, nil
}

// parseTime treats an empty value as the zero time.
func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339Nano, raw)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
