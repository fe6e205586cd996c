package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBridgeURL = "ws://10.0.0.7:8765/robot"

func TestBridgeDialModelShowsURLWhileDialling(t *testing.T) {
	t.Parallel()

	m := newBridgeDialModel(testBridgeURL, nil)

	assert.Contains(t, m.View(), "Connecting to robot bridge")
	assert.Contains(t, m.View(), testBridgeURL)
}

func TestBridgeDialModelReportsOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "connected", want: "Robot bridge connected: " + testBridgeURL},
		{name: "unreachable", err: errors.New("connection refused"), want: "Robot bridge " + testBridgeURL + " unreachable: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			updated, cmd := newBridgeDialModel(testBridgeURL, nil).Update(bridgeDialedMsg{err: tt.err})
			require.NotNil(t, cmd)

			m, ok := updated.(bridgeDialModel)
			require.True(t, ok)
			assert.True(t, m.done)
			assert.Equal(t, tt.err, m.err)
			assert.Contains(t, m.View(), tt.want)

			_, tickCmd := m.Update(spinner.TickMsg{})
			assert.Nil(t, tickCmd)
		})
	}
}

func TestDialBridgeWithProgressReturnsDialError(t *testing.T) {
	t.Parallel()

	refused := errors.New("connection refused")
	var out bytes.Buffer

	err := dialBridgeWithProgress(context.Background(), &out, testBridgeURL, func(context.Context) error {
		return refused
	})
	require.ErrorIs(t, err, refused)
}
