package protocols

import (
	"context"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
)

type EventPublisher interface {
	Publish(ctx context.Context, events ...item.Event) error
}
