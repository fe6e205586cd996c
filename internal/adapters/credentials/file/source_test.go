package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/shotbot/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceRejectsInvalidRefs(t *testing.T) {
	t.Parallel()

	source := NewSource(t.TempDir())
	testCases := []struct {
		name    string
		ref     string
		wantErr string
	}{
		{name: "empty", ref: "", wantErr: "credential ref is empty"},
		{name: "whitespace", ref: "   ", wantErr: "credential ref is empty"},
		{name: "absolute", ref: "/etc/passwd", wantErr: "invalid credential ref"},
		{name: "traversal", ref: "../escape", wantErr: "invalid credential ref"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := source.Lookup(context.Background(), tc.ref)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestSourceLookupTrimsTrailingNewline(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shotbot"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shotbot", "redis"), []byte("hunter2\n"), 0o600))

	value, err := NewSource(root).Lookup(context.Background(), "shotbot/redis")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", value)
}

func TestSourceLookupMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewSource(t.TempDir()).Lookup(context.Background(), "shotbot/redis")
	require.ErrorIs(t, err, ports.ErrCredentialNotFound)
}
