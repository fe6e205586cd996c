package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShotDue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		tolerance Tolerance
		shots     []int64
		now       int64
		want      bool
	}{
		{name: "no history is always due", tolerance: ToleranceStrong, shots: nil, now: 0, want: true},
		{name: "empty history is always due", tolerance: ToleranceWeak, shots: []int64{}, now: 0, want: true},
		{name: "wait not yet exceeded", tolerance: ToleranceNormal, shots: []int64{10}, now: 11, want: false},
		{name: "wait exactly reached is not due", tolerance: ToleranceNormal, shots: []int64{10}, now: 12, want: false},
		{name: "wait exceeded", tolerance: ToleranceNormal, shots: []int64{10}, now: 13, want: true},
		{name: "wait grows with shot count", tolerance: ToleranceStrong, shots: []int64{1, 5, 20}, now: 29, want: false},
		{name: "wait grows with shot count exceeded", tolerance: ToleranceStrong, shots: []int64{1, 5, 20}, now: 30, want: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ShotDue(tc.tolerance, tc.shots, tc.now))
		})
	}
}

func TestShotDueMatchesLinearFormula(t *testing.T) {
	t.Parallel()

	for tol := ToleranceWeak; tol <= ToleranceStrong; tol++ {
		for n := 1; n <= 5; n++ {
			shots := make([]int64, n)
			for i := range shots {
				shots[i] = int64(i * 7)
			}
			last := shots[n-1]
			for now := last; now < last+20; now++ {
				want := now-last > int64(tol)*int64(n)
				assert.Equal(t, want, ShotDue(tol, shots, now), "tol=%d n=%d now=%d", tol, n, now)
			}
		}
	}
}

func TestNextShotIn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(0), NextShotIn(ToleranceWeak, nil, 0))
	assert.Equal(t, int64(3), NextShotIn(ToleranceNormal, []int64{10}, 10))
	assert.Equal(t, int64(1), NextShotIn(ToleranceNormal, []int64{10}, 12))
	assert.Equal(t, int64(0), NextShotIn(ToleranceNormal, []int64{10}, 13))
}

func TestShotListEncodeDecodeIdentity(t *testing.T) {
	t.Parallel()

	lists := [][]int64{
		{},
		{0},
		{42},
		{1, 2, 3},
		{0, 59, 3600, 86400},
	}

	for _, shots := range lists {
		encoded := EncodeShots(shots)
		decoded, err := DecodeShots(encoded)
		require.NoError(t, err)
		assert.Equal(t, shots, decoded)
	}

	assert.Equal(t, "", EncodeShots(nil))
	assert.Equal(t, "1,2,3", EncodeShots([]int64{1, 2, 3}))
}

func TestDecodeShotsRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"a", "1,,2", "1,-2", "1.5"} {
		_, err := DecodeShots(raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrInvalidShotList)
	}
}

func TestToleranceFromPressesCycles(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ToleranceWeak, ToleranceFromPresses(0))
	assert.Equal(t, ToleranceNormal, ToleranceFromPresses(1))
	assert.Equal(t, ToleranceStrong, ToleranceFromPresses(2))
	assert.Equal(t, ToleranceWeak, ToleranceFromPresses(3))
	assert.Equal(t, ToleranceWeak, ToleranceFromPresses(-4))
}

func TestParseTolerance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    Tolerance
		wantErr bool
	}{
		{raw: "1", want: ToleranceWeak},
		{raw: "normal", want: ToleranceNormal},
		{raw: " Strong ", want: ToleranceStrong},
		{raw: "4", wantErr: true},
		{raw: "tipsy", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseTolerance(tc.raw)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidTolerance, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got)
	}
	assert.Equal(t, "Normal", ToleranceNormal.Label())
	assert.Equal(t, "7", Tolerance(7).Label())
}

func TestNewSessionIsDerivedFromStartTime(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 10, 18, 21, 0, 0, 0, time.UTC)
	a := NewSession(start)
	b := NewSession(start.In(time.FixedZone("CEST", 2*60*60)))
	c := NewSession(start.Add(time.Nanosecond))

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Equal(t, int64(90), a.Elapsed(start.Add(90*time.Second+500*time.Millisecond)))
	assert.Equal(t, int64(0), a.Elapsed(start.Add(-time.Minute)))
}

func TestInviteeIDRoundTripsSession(t *testing.T) {
	t.Parallel()

	id := NewInviteeID("sess-1", 7)
	assert.Equal(t, InviteeID("sess-1_7"), id)
	assert.Equal(t, SessionID("sess-1"), id.SessionID())
	assert.Equal(t, SessionID(""), InviteeID("orphan").SessionID())
}

func TestInviteeValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Invitee{ID: "s_1", Name: "Ada", Tolerance: ToleranceNormal}.Validate())
	assert.ErrorContains(t, Invitee{Name: "Ada", Tolerance: ToleranceNormal}.Validate(), "id is required")
	assert.ErrorContains(t, Invitee{ID: "s_1", Tolerance: ToleranceNormal}.Validate(), "name is required")
	assert.ErrorIs(t, Invitee{ID: "s_1", Name: "Ada"}.Validate(), ErrInvalidTolerance)
}
