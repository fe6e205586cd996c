package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/shotbot/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, args ...string) (stdout string, stderr string, err error)

// Source reads credentials from the pass password store. Only the first line
// of an entry is used, following the pass convention.
type Source struct {
	run runFunc
}

var _ ports.CredentialSource = (*Source)(nil)

func NewSource() *Source {
	return &Source{run: runPassCommand}
}

func (s *Source) Lookup(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, "show", ref)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return "", err
		}
		if strings.Contains(stderr, "is not in the password store") {
			return "", fmt.Errorf("pass lookup %q: %w", ref, ports.ErrCredentialNotFound)
		}
		return "", formatError(ref, err, stderr)
	}

	first, _, _ := strings.Cut(stdout, "\n")
	return strings.TrimSuffix(first, "\r"), nil
}

func runPassCommand(ctx context.Context, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(ref string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass lookup %q: %w", ref, err)
	}

	return fmt.Errorf("pass lookup %q: %w: %s", ref, err, stderr)
}
