package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/shotbot/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLookupUsesPassShowAndKeepsFirstLine(t *testing.T) {
	t.Parallel()

	source := &Source{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "shotbot/redis"}, args)
			return "hunter2\nuser: party\n", "", nil
		},
	}

	value, err := source.Lookup(context.Background(), "shotbot/redis")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", value)
}

func TestSourceLookupMapsMissingEntry(t *testing.T) {
	t.Parallel()

	source := &Source{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			return "", "Error: shotbot/redis is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := source.Lookup(context.Background(), "shotbot/redis")
	require.ErrorIs(t, err, ports.ErrCredentialNotFound)
}

func TestSourceLookupReturnsClearError(t *testing.T) {
	t.Parallel()

	source := &Source{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			return "", "gpg: decryption failed", errors.New("exit status 2")
		},
	}

	_, err := source.Lookup(context.Background(), "shotbot/redis")
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass lookup")
	assert.ErrorContains(t, err, "shotbot/redis")
	assert.ErrorContains(t, err, "decryption failed")
}

func TestSourceLookupHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	source := &Source{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			t.Fatal("pass should not run with a canceled context")
			return "", "", nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.Lookup(ctx, "shotbot/redis")
	require.ErrorIs(t, err, context.Canceled)
}
