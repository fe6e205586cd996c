package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *stepClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	return nil
}

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestSessionListWithoutSessions(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "session", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "sessions: 0")
	assert.Contains(t, stdout, "No sessions recorded.")
}

func TestSessionStatusWithoutSessions(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "session", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session not found")
}

func TestInviteeShowUnknownInvitee(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "invitee", "show", "nobody_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invitee not found")
}

func TestRunRejectsNegativeCycles(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "run", "--simulate", "--cycles", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--cycles must not be negative")
}

func TestSimulatedRunThenInspectSession(t *testing.T) {
	home := t.TempDir()
	setCLIEnv(t, home)

	app, err := wireApp()
	require.NoError(t, err)
	app.clock = &stepClock{now: time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)}

	stdout, _, err := executeRoot(buildRootCmd(app, nil), "run", "--simulate", "--cycles", "1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "session "))
	sessionID := strings.TrimSpace(strings.TrimPrefix(stdout, "session "))
	require.NotEmpty(t, sessionID)

	stdout, _, err = executeCLI(t, home, "session", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "sessions: 1")
	assert.Contains(t, stdout, sessionID)

	stdout, _, err = executeCLI(t, home, "session", "status", "--json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))

	var status struct {
		Session struct {
			ID string
		}
		Invitees []struct {
			Invitee struct {
				ID         string
				Name       string
				Tolerance  int
				ShotsTaken []int64
			}
		}
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &status))
	assert.Equal(t, sessionID, status.Session.ID)
	require.Len(t, status.Invitees, 1)
	assert.Equal(t, "Ada", status.Invitees[0].Invitee.Name)
	assert.Equal(t, 1, status.Invitees[0].Invitee.Tolerance)
	assert.Len(t, status.Invitees[0].Invitee.ShotsTaken, 1)

	stdout, _, err = executeCLI(t, home, "session", "status", "--session", sessionID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "invitees: 1")
	assert.Contains(t, stdout, "Ada ("+sessionID+"_1)")

	stdout, _, err = executeCLI(t, home, "invitee", "show", sessionID+"_1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "name:\tAda")
	assert.Contains(t, stdout, "tolerance:\tWeak")
}

func TestInvalidConfigSurfacesOnRoot(t *testing.T) {
	home := t.TempDir()
	setCLIEnv(t, home)
	t.Setenv("SHOTBOT_STORE_BACKEND", "sqlite")

	_, _, err := executeRoot(newRootCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store.backend")
}

func setCLIEnv(t *testing.T, home string) {
	t.Helper()

	t.Setenv("HOME", home)
	t.Setenv("SHOTBOT_ENV_FILE", filepath.Join(home, ".env"))
	t.Setenv("SHOTBOT_STORE_BACKEND", "toml")
	t.Setenv("SHOTBOT_ROBOT_BACKEND", "sim")
	t.Setenv("SHOTBOT_LOG_LEVEL", "error")
	t.Setenv("SHOTBOT_MQTT_BROKER", "")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	setCLIEnv(t, home)

	return executeRoot(newRootCmd(), args...)
}

func executeRoot(root *cobra.Command, args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
