package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/shotbot/internal/domain"
)

func TestPublisherLogsEventFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := p.Publish(context.Background(), domain.Event{
		Kind:      domain.EventInviteeRegistered,
		SessionID: "s1",
		InviteeID: "s1_2",
		Name:      "Grace",
		Tolerance: domain.ToleranceStrong,
	})
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "party event", line["msg"])
	assert.Equal(t, "invitee_registered", line["kind"])
	assert.Equal(t, "s1_2", line["invitee"])
	assert.Equal(t, "Strong", line["tolerance"])
	assert.NotContains(t, line, "shots")
}
