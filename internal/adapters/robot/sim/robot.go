// Package sim provides a scripted stand-in for the robot, used for dry runs
// without hardware and as the robot in service tests.
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
)

type Option func(*Robot)

// WithFaceFrames scripts what VisibleFaces returns, one frame per call. The
// last frame repeats once the script runs out unless WithLoop is set.
func WithFaceFrames(frames ...[]domain.Face) Option {
	return func(r *Robot) {
		r.faceFrames = frames
	}
}

// WithMarkerFrames scripts what VisibleMarkers returns, one frame per call.
func WithMarkerFrames(frames ...[]domain.MarkerPose) Option {
	return func(r *Robot) {
		r.markerFrames = frames
	}
}

// WithButtonPresses scripts ButtonPressed results; false once exhausted.
func WithButtonPresses(presses ...bool) Option {
	return func(r *Robot) {
		r.presses = presses
	}
}

func WithAnimations(names ...string) Option {
	return func(r *Robot) {
		r.animations = names
	}
}

func WithPose(pose domain.Position) Option {
	return func(r *Robot) {
		r.pose = pose
	}
}

func WithLoop() Option {
	return func(r *Robot) {
		r.loop = true
	}
}

// WithFailure makes the named capability (e.g. "say", "drive") fail.
func WithFailure(action string, err error) Option {
	return func(r *Robot) {
		r.failures[action] = err
	}
}

type Robot struct {
	mu sync.Mutex

	faceFrames   [][]domain.Face
	markerFrames [][]domain.MarkerPose
	presses      []bool
	animations   []string
	pose         domain.Position
	loop         bool
	failures     map[string]error

	faceCalls   int
	markerCalls int
	pressCalls  int
	markers     []domain.MarkerSpec
	actions     []string
	closed      bool
}

var _ ports.Robot = (*Robot)(nil)

func New(opts ...Option) *Robot {
	r := &Robot{failures: map[string]error{}}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewParty returns a looping robot that keeps meeting two guests and always
// sees the cup marker, for `run --simulate`.
func NewParty() *Robot {
	ada := domain.Face{ID: 1, Name: "Ada", Position: domain.Position{X: 400, Y: 50, Z: 300}}
	grace := domain.Face{ID: 2, Name: "Grace", Position: domain.Position{X: 350, Y: -80, Z: 300}}

	return New(
		WithLoop(),
		WithFaceFrames(
			nil,
			[]domain.Face{ada},
			[]domain.Face{ada},
			nil,
			[]domain.Face{grace, ada},
			[]domain.Face{grace, ada},
		),
		WithMarkerFrames([]domain.MarkerPose{{X: 230, Y: 130, AngleZ: 0.5}}),
		WithAnimations("anim_eyecontact_giggle_01", "anim_pounce_success_02", "anim_dancebeat_01"),
	)
}

// Actions returns the capability calls made so far in order.
func (r *Robot) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.actions...)
}

func (r *Robot) DefinedMarkers() []domain.MarkerSpec {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]domain.MarkerSpec(nil), r.markers...)
}

func (r *Robot) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

func (r *Robot) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	return nil
}

func (r *Robot) SayText(ctx context.Context, text string) error {
	return r.record(ctx, "say", text)
}

func (r *Robot) PlayAnimation(ctx context.Context, name string) error {
	return r.record(ctx, "anim", name)
}

func (r *Robot) Animations(ctx context.Context) ([]string, error) {
	if err := r.check(ctx, "animations"); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.animations...), nil
}

func (r *Robot) DriveOffCharger(ctx context.Context) error {
	return r.record(ctx, "drive_off_charger", "")
}

func (r *Robot) TurnInPlace(ctx context.Context, angleDeg float64) error {
	return r.record(ctx, "turn", fmt.Sprintf("%g", angleDeg))
}

func (r *Robot) DriveStraight(ctx context.Context, distanceMM, speedMMPS float64) error {
	return r.record(ctx, "drive", fmt.Sprintf("%g@%g", distanceMM, speedMMPS))
}

func (r *Robot) SetHeadAngle(ctx context.Context, angleDeg float64) error {
	return r.record(ctx, "head", fmt.Sprintf("%g", angleDeg))
}

func (r *Robot) SetHeadMotor(ctx context.Context, speed float64) error {
	return r.record(ctx, "head_motor", fmt.Sprintf("%g", speed))
}

func (r *Robot) SetLiftMotor(ctx context.Context, speed float64) error {
	return r.record(ctx, "lift", fmt.Sprintf("%g", speed))
}

func (r *Robot) Pose(ctx context.Context) (domain.Position, error) {
	if err := r.check(ctx, "pose"); err != nil {
		return domain.Position{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pose, nil
}

func (r *Robot) VisibleFaces(ctx context.Context) ([]domain.Face, error) {
	if err := r.check(ctx, "faces"); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	frame := pick(r.faceFrames, r.faceCalls, r.loop)
	r.faceCalls++
	return append([]domain.Face(nil), frame...), nil
}

func (r *Robot) DefineMarker(ctx context.Context, def domain.MarkerSpec) error {
	if err := r.record(ctx, "define_marker", def.Marker); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.markers = append(r.markers, def)
	return nil
}

func (r *Robot) VisibleMarkers(ctx context.Context) ([]domain.MarkerPose, error) {
	if err := r.check(ctx, "markers"); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	frame := pick(r.markerFrames, r.markerCalls, r.loop)
	r.markerCalls++
	return append([]domain.MarkerPose(nil), frame...), nil
}

func (r *Robot) ButtonPressed(ctx context.Context) (bool, error) {
	if err := r.check(ctx, "button"); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.pressCalls
	r.pressCalls++
	if idx >= len(r.presses) {
		return false, nil
	}

	return r.presses[idx], nil
}

func (r *Robot) record(ctx context.Context, action, arg string) error {
	if err := r.check(ctx, action); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if arg == "" {
		r.actions = append(r.actions, action)
	} else {
		r.actions = append(r.actions, action+": "+arg)
	}
	return nil
}

func (r *Robot) check(ctx context.Context, action string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("sim robot %s: closed", action)
	}
	if err, ok := r.failures[action]; ok {
		return fmt.Errorf("sim robot %s: %w", action, err)
	}

	return nil
}

func pick[T any](frames [][]T, call int, loop bool) []T {
	if len(frames) == 0 {
		return nil
	}
	if call < len(frames) {
		return frames[call]
	}
	if loop {
		return frames[call%len(frames)]
	}

	return frames[len(frames)-1]
}
