package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/shotbot/internal/ports"
)

// Source reads credentials stored one per file under a root directory.
type Source struct {
	root string
}

var _ ports.CredentialSource = (*Source)(nil)

func NewSource(root string) *Source {
	return &Source{root: filepath.Clean(root)}
}

func (s *Source) Lookup(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathForRef(ref)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("file credential %q: %w", ref, ports.ErrCredentialNotFound)
		}
		return "", fmt.Errorf("read file credential %q: %w", ref, err)
	}

	return strings.TrimRight(string(data), "\r\n"), nil
}

func (s *Source) pathForRef(ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return "", errors.New("credential ref is empty")
	}

	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." {
		return "", fmt.Errorf("invalid credential ref %q", ref)
	}

	return filepath.Join(s.root, cleaned), nil
}
