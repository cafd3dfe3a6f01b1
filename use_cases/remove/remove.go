package remove

import (
	"context"
	"log/slog"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
	"github.com/giovaniif/e-commerce/catalog/infra/metrics"
	protocols "github.com/giovaniif/e-commerce/catalog/protocols"
)

type Remove struct {
	itemRepository item.Repository
	eventPublisher protocols.EventPublisher
}

func NewRemove(itemRepository item.Repository, eventPublisher protocols.EventPublisher) *Remove {
	return &Remove{
		itemRepository: itemRepository,
		eventPublisher: eventPublisher,
	}
}

func (r *Remove) Remove(ctx context.Context, input Input) (Output, error) {
	deleted, err := r.itemRepository.Delete(input.Name)
	if err != nil {
		return Output{}, err
	}
	metrics.ItemsDeleted.Inc()

	if err := r.eventPublisher.Publish(ctx, item.NewEvent(item.EventDeleted, deleted, nil)); err != nil {
		metrics.EventPublishFailures.Inc()
		slog.ErrorContext(ctx, "failed to publish item events", "type", item.EventDeleted, "name", deleted.Name, "error", err)
	}

	return Output{Deleted: deleted}, nil
}

type Input struct {
	Name string
}

type Output struct {
	Deleted item.Item `json:"deleted"`
}
