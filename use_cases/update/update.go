package update

import (
	"context"
	"log/slog"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
	"github.com/giovaniif/e-commerce/catalog/infra/metrics"
	protocols "github.com/giovaniif/e-commerce/catalog/protocols"
)

type Update struct {
	itemRepository item.Repository
	eventPublisher protocols.EventPublisher
}

func NewUpdate(itemRepository item.Repository, eventPublisher protocols.EventPublisher) *Update {
	return &Update{
		itemRepository: itemRepository,
		eventPublisher: eventPublisher,
	}
}

func (u *Update) Update(ctx context.Context, input Input) (Output, error) {
	result, err := u.itemRepository.Update(input.TargetName, input.Body)
	if err != nil {
		return Output{}, err
	}
	metrics.ItemsUpdated.Inc()

	prev := result.Prev
	if err := u.eventPublisher.Publish(ctx, item.NewEvent(item.EventUpdated, result.Updated, &prev)); err != nil {
		metrics.EventPublishFailures.Inc()
		slog.ErrorContext(ctx, "failed to publish item events", "type", item.EventUpdated, "name", result.Updated.Name, "error", err)
	}

	return Output{Prev: result.Prev, Updated: result.Updated}, nil
}

type Input struct {
	TargetName string
	Body       any
}

type Output struct {
	Prev    item.Item `json:"prev"`
	Updated item.Item `json:"updated"`
}
