package ports

import (
	"context"

	"github.com/bnema/shotbot/internal/domain"
)

// Robot is the capability surface of the vendor robot SDK. Angles are in
// degrees, distances in millimetres, motor speeds in radians per second.
type Robot interface {
	SayText(ctx context.Context, text string) error
	PlayAnimation(ctx context.Context, name string) error
	Animations(ctx context.Context) ([]string, error)

	DriveOffCharger(ctx context.Context) error
	TurnInPlace(ctx context.Context, angleDeg float64) error
	DriveStraight(ctx context.Context, distanceMM, speedMMPS float64) error
	SetHeadAngle(ctx context.Context, angleDeg float64) error
	SetHeadMotor(ctx context.Context, speed float64) error
	SetLiftMotor(ctx context.Context, speed float64) error

	Pose(ctx context.Context) (domain.Position, error)
	VisibleFaces(ctx context.Context) ([]domain.Face, error)
	DefineMarker(ctx context.Context, def domain.MarkerSpec) error
	// VisibleMarkers returns marker poses relative to the robot.
	VisibleMarkers(ctx context.Context) ([]domain.MarkerPose, error)
	ButtonPressed(ctx context.Context) (bool, error)

	Close() error
}
