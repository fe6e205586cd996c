// Package log publishes party events to the structured logger. It is the
// publisher used when no broker is configured.
package log

import (
	"context"
	"log/slog"

	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/ports"
)

type Publisher struct {
	logger *slog.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	attrs := []slog.Attr{
		slog.String("kind", string(event.Kind)),
		slog.String("session", string(event.SessionID)),
	}
	if event.InviteeID != "" {
		attrs = append(attrs, slog.String("invitee", string(event.InviteeID)))
	}
	if event.Name != "" {
		attrs = append(attrs, slog.String("name", event.Name))
	}
	if event.Tolerance.Valid() {
		attrs = append(attrs, slog.String("tolerance", event.Tolerance.Label()))
	}
	if event.Shots > 0 {
		attrs = append(attrs, slog.Int("shots", event.Shots))
	}

	p.logger.LogAttrs(ctx, slog.LevelInfo, "party event", attrs...)
	return nil
}
