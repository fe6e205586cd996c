package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simrobot "github.com/bnema/shotbot/internal/adapters/robot/sim"
	"github.com/bnema/shotbot/internal/domain"
)

func TestInviteeServiceRegisterStoresGuestWithEmptyHistory(t *testing.T) {
	t.Parallel()

	store := newInMemoryStore()
	robot := simrobot.New()
	asker := &fixedAsker{tolerance: domain.ToleranceNormal}
	events := &recordingPublisher{}
	service := NewInviteeService(store, robot, asker, events, newFakeClock(), nil)
	ctx := context.Background()

	id := domain.NewInviteeID("s1", 7)

	first, err := service.IsFirstSighting(ctx, id)
	require.NoError(t, err)
	assert.True(t, first)

	invitee, err := service.Register(ctx, id, "Ada")
	require.NoError(t, err)
	assert.Equal(t, domain.Invitee{ID: id, Name: "Ada", Tolerance: domain.ToleranceNormal, ShotsTaken: []int64{}}, invitee)

	first, err = service.IsFirstSighting(ctx, id)
	require.NoError(t, err)
	assert.False(t, first)

	stored, err := service.Lookup(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, invitee, stored)

	assert.Equal(t, 1, asker.calls)
	assert.Equal(t, []string{"say: Hello Ada!", "say: Registered Ada!"}, robot.Actions())

	require.Len(t, events.events, 1)
	event := events.events[0]
	assert.Equal(t, domain.EventInviteeRegistered, event.Kind)
	assert.Equal(t, domain.SessionID("s1"), event.SessionID)
	assert.Equal(t, domain.ToleranceNormal, event.Tolerance)
}

func TestInviteeServiceRegisterFailures(t *testing.T) {
	t.Parallel()

	askErr := errors.New("button stuck")
	saveErr := errors.New("cache unavailable")

	tests := []struct {
		name  string
		asker *fixedAsker
		save  error
		want  error
	}{
		{name: "ask fails", asker: &fixedAsker{err: askErr}, want: askErr},
		{name: "save fails", asker: &fixedAsker{tolerance: domain.ToleranceWeak}, save: saveErr, want: saveErr},
		{name: "invalid tolerance", asker: &fixedAsker{tolerance: 9}, want: domain.ErrInvalidTolerance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newInMemoryStore()
			store.failSave = tt.save
			robot := simrobot.New()
			service := NewInviteeService(store, robot, tt.asker, nil, newFakeClock(), nil)

			_, err := service.Register(context.Background(), "s1_1", "Grace")
			require.ErrorIs(t, err, tt.want)
			assert.NotContains(t, robot.Actions(), "say: Registered Grace!")
		})
	}
}

func TestInviteeServiceRecordShotAppendsElapsedSeconds(t *testing.T) {
	t.Parallel()

	store := newInMemoryStore()
	clock := newFakeClock()
	events := &recordingPublisher{}
	service := NewInviteeService(store, simrobot.New(), &fixedAsker{}, events, clock, nil)
	ctx := context.Background()

	session := domain.NewSession(partyStart)
	invitee := domain.Invitee{ID: domain.NewInviteeID(session.ID, 3), Name: "Linus", Tolerance: domain.ToleranceStrong, ShotsTaken: []int64{4}}
	require.NoError(t, store.SaveInvitee(ctx, invitee))

	clock.Advance(95 * time.Second)

	updated, err := service.RecordShot(ctx, session, invitee)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 95}, updated.ShotsTaken)
	assert.Equal(t, []int64{4}, invitee.ShotsTaken)

	stored, err := service.Lookup(ctx, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 95}, stored.ShotsTaken)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventShotPoured, events.events[0].Kind)
	assert.Equal(t, 2, events.events[0].Shots)
}

func TestInviteeServiceRecordShotForUnknownInvitee(t *testing.T) {
	t.Parallel()

	service := NewInviteeService(newInMemoryStore(), simrobot.New(), &fixedAsker{}, nil, newFakeClock(), nil)

	_, err := service.RecordShot(context.Background(), domain.NewSession(partyStart), domain.Invitee{ID: "s1_9"})
	require.ErrorIs(t, err, domain.ErrInviteeNotFound)
}
