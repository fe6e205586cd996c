// Package mqtt publishes party events to an MQTT broker as JSON.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
)

const (
	DefaultTopic = "shotbot/events"

	qosAtLeastOnce    = 1
	connectTimeout    = 5 * time.Second
	publishTimeout    = 2 * time.Second
	disconnectQuiesce = 250
)

var (
	ErrConnectTimeout = errors.New("mqtt connect timeout")
	ErrPublishTimeout = errors.New("mqtt publish timeout")
)

type Options struct {
	Broker   string
	ClientID string
	Topic    string
	Logger   *slog.Logger
}

// client is the part of paho.Client the publisher needs.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

type connector interface {
	client
	Connect() paho.Token
}

type Publisher struct {
	client  client
	topic   string
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

func Connect(ctx context.Context, opts Options) (*Publisher, error) {
	broker := strings.TrimSpace(opts.Broker)
	if broker == "" {
		return nil, errors.New("connect mqtt: broker is required")
	}
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger

	clientOpts := paho.NewClientOptions()
	clientOpts.AddBroker(broker)
	clientOpts.SetClientID(opts.ClientID)
	clientOpts.SetAutoReconnect(true)
	clientOpts.SetMaxReconnectInterval(30 * time.Second)
	clientOpts.OnConnectionLost = func(_ paho.Client, err error) {
		logger.Warn("mqtt connection lost", "broker", broker, "error", err)
	}

	logger.Info("connecting to mqtt broker", "broker", broker)
	return connect(ctx, paho.NewClient(clientOpts), broker, connectTimeout, opts)
}

// connect stops the client's connect attempt when it fails or times out.
func connect(ctx context.Context, c connector, broker string, timeout time.Duration, opts Options) (*Publisher, error) {
	if err := waitToken(ctx, c.Connect(), timeout, ErrConnectTimeout); err != nil {
		c.Disconnect(0)
		return nil, fmt.Errorf("connect mqtt %s: %w", broker, err)
	}

	return newPublisher(c, opts), nil
}

func newPublisher(c client, opts Options) *Publisher {
	topic := strings.TrimSuffix(strings.TrimSpace(opts.Topic), "/")
	if topic == "" {
		topic = DefaultTopic
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Publisher{
		client:  c,
		topic:   topic,
		timeout: publishTimeout,
		logger:  opts.Logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Kind, err)
	}

	topic := p.topic + "/" + string(event.Kind)
	token := p.client.Publish(topic, qosAtLeastOnce, false, payload)
	if err := waitToken(ctx, token, p.timeout, ErrPublishTimeout); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	p.logger.Debug("event published", "topic", topic, "bytes", len(payload))
	return nil
}

func (p *Publisher) Close() error {
	p.client.Disconnect(disconnectQuiesce)
	return nil
}

func waitToken(ctx context.Context, token paho.Token, timeout time.Duration, timeoutErr error) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return timeoutErr
	case <-token.Done():
		return token.Error()
	}
}
