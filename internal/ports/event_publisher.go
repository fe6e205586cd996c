package ports

import (
	"context"

	"github.com/bnema/shotbot/internal/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
