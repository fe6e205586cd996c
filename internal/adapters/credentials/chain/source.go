package chain

import (
	"context"
	"errors"
	"fmt"

	filesource "github.com/bnema/shotbot/internal/adapters/credentials/file"
	passsource "github.com/bnema/shotbot/internal/adapters/credentials/pass"
	"github.com/bnema/shotbot/internal/ports"
)

// Source tries each backend in order and returns the first hit.
type Source struct {
	sources []ports.CredentialSource
}

var _ ports.CredentialSource = (*Source)(nil)

var errNoSources = errors.New("credential chain has no sources")

func NewSource(sources ...ports.CredentialSource) (*Source, error) {
	if len(sources) == 0 {
		return nil, errNoSources
	}
	for i, source := range sources {
		if source == nil {
			return nil, fmt.Errorf("credential source %d is nil", i)
		}
	}

	return &Source{sources: sources}, nil
}

func NewPassFirstWithFileFallback(fileRoot string) (*Source, error) {
	return NewSource(passsource.NewSource(), filesource.NewSource(fileRoot))
}

func (s *Source) Lookup(ctx context.Context, ref string) (string, error) {
	var errs []error
	for i, source := range s.sources {
		value, err := source.Lookup(ctx, ref)
		if err == nil {
			return value, nil
		}
		if shouldStop(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("backend %d: %w", i, err))
	}

	return "", fmt.Errorf("lookup credential %q: %w", ref, errors.Join(errs...))
}

func shouldStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
