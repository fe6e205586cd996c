package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Sessions []sessionSchema `toml:"sessions"`
	Invitees []inviteeSchema `toml:"invitees"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported sessions schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type sessionSchema struct {
	ID        string `toml:"id"`
	StartedAt string `toml:"started_at"`
}

type inviteeSchema struct {
	ID         string `toml:"id"`
	Session    string `toml:"session"`
	Name       string `toml:"name"`
	Strength   int    `toml:"strength"`
	ShotsTaken string `toml:"shots_taken"`
}
