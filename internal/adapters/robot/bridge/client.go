package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
	"github.com/gorilla/websocket"
)

const (
	defaultCallTimeout = 30 * time.Second
	writeWait          = 10 * time.Second
)

var ErrClosed = errors.New("robot bridge connection closed")

// RemoteError is an error reported by the bridge for a single call.
type RemoteError struct {
	Method  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("robot bridge %s: %s", e.Method, e.Message)
}

type Options struct {
	CallTimeout time.Duration
	Logger      *slog.Logger
}

// Client drives the robot through a bridge process that owns the vendor SDK.
// Calls are strictly sequential: one request is in flight at a time.
type Client struct {
	conn        *websocket.Conn
	callTimeout time.Duration
	logger      *slog.Logger

	mu     sync.Mutex
	nextID uint64
	closed bool
}

var _ ports.Robot = (*Client)(nil)

func Dial(ctx context.Context, url string, opts Options) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial robot bridge %s: %w", url, err)
	}

	return newClient(conn, opts), nil
}

func newClient(conn *websocket.Conn, opts Options) *Client {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		conn:        conn,
		callTimeout: opts.CallTimeout,
		logger:      opts.Logger,
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	return c.conn.Close()
}

func (c *Client) SayText(ctx context.Context, text string) error {
	return c.call(ctx, methodSayText, textParams{Text: text}, nil)
}

func (c *Client) PlayAnimation(ctx context.Context, name string) error {
	return c.call(ctx, methodPlayAnimation, animationParams{Name: name}, nil)
}

func (c *Client) Animations(ctx context.Context) ([]string, error) {
	var list animationList
	if err := c.call(ctx, methodListAnimations, nil, &list); err != nil {
		return nil, err
	}

	return list.Names, nil
}

func (c *Client) DriveOffCharger(ctx context.Context) error {
	return c.call(ctx, methodDriveOffCharger, nil, nil)
}

func (c *Client) TurnInPlace(ctx context.Context, angleDeg float64) error {
	return c.call(ctx, methodTurnInPlace, angleParams{AngleDeg: angleDeg}, nil)
}

func (c *Client) DriveStraight(ctx context.Context, distanceMM, speedMMPS float64) error {
	return c.call(ctx, methodDriveStraight, driveParams{DistanceMM: distanceMM, SpeedMMPS: speedMMPS}, nil)
}

func (c *Client) SetHeadAngle(ctx context.Context, angleDeg float64) error {
	return c.call(ctx, methodSetHeadAngle, angleParams{AngleDeg: angleDeg}, nil)
}

func (c *Client) SetHeadMotor(ctx context.Context, speed float64) error {
	return c.call(ctx, methodSetHeadMotor, motorParams{Speed: speed}, nil)
}

func (c *Client) SetLiftMotor(ctx context.Context, speed float64) error {
	return c.call(ctx, methodSetLiftMotor, motorParams{Speed: speed}, nil)
}

func (c *Client) Pose(ctx context.Context) (domain.Position, error) {
	var pos position
	if err := c.call(ctx, methodPose, nil, &pos); err != nil {
		return domain.Position{}, err
	}

	return domain.Position{X: pos.X, Y: pos.Y, Z: pos.Z}, nil
}

func (c *Client) VisibleFaces(ctx context.Context) ([]domain.Face, error) {
	var list faceList
	if err := c.call(ctx, methodVisibleFaces, nil, &list); err != nil {
		return nil, err
	}

	faces := make([]domain.Face, 0, len(list.Faces))
	for _, f := range list.Faces {
		faces = append(faces, domain.Face{
			ID:       f.FaceID,
			Name:     f.Name,
			Position: domain.Position{X: f.X, Y: f.Y, Z: f.Z},
		})
	}

	return faces, nil
}

func (c *Client) DefineMarker(ctx context.Context, def domain.MarkerSpec) error {
	return c.call(ctx, methodDefineMarker, markerDefinition{
		CustomType:     def.Type,
		Marker:         def.Marker,
		SizeMM:         def.SizeMM,
		MarkerWidthMM:  def.MarkerWidth,
		MarkerHeightMM: def.MarkerHeight,
		IsUnique:       def.Unique,
	}, nil)
}

func (c *Client) VisibleMarkers(ctx context.Context) ([]domain.MarkerPose, error) {
	var list markerList
	if err := c.call(ctx, methodVisibleMarkers, nil, &list); err != nil {
		return nil, err
	}

	markers := make([]domain.MarkerPose, 0, len(list.Markers))
	for _, m := range list.Markers {
		markers = append(markers, domain.MarkerPose{X: m.X, Y: m.Y, Z: m.Z, AngleZ: m.AngleZ})
	}

	return markers, nil
}

func (c *Client) ButtonPressed(ctx context.Context) (bool, error) {
	var state buttonState
	if err := c.call(ctx, methodButtonPressed, nil, &state); err != nil {
		return false, err
	}

	return state.Pressed, nil
}

func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.nextID++
	id := c.nextID

	deadline := time.Now().Add(c.callTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	// Unblock the read as soon as ctx is done.
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("robot bridge %s: set write deadline: %w", method, err)
	}
	if err := c.conn.WriteJSON(request{ID: id, Method: method, Params: params}); err != nil {
		return fmt.Errorf("robot bridge %s: send: %w", method, err)
	}

	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("robot bridge %s: set read deadline: %w", method, err)
	}

	for {
		var resp response
		if err := c.conn.ReadJSON(&resp); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if ctxDeadline, ok := ctx.Deadline(); ok && !time.Now().Before(ctxDeadline) {
				return context.DeadlineExceeded
			}
			return fmt.Errorf("robot bridge %s: receive: %w", method, err)
		}

		if resp.ID != id {
			c.logger.Debug("dropping stale bridge response", "method", method, "want_id", id, "got_id", resp.ID)
			continue
		}

		if resp.Error != "" {
			return &RemoteError{Method: method, Message: resp.Error}
		}

		if result == nil || len(resp.Result) == 0 {
			return nil
		}

		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("robot bridge %s: decode result: %w", method, err)
		}

		return nil
	}
}
