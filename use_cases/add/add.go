package add

import (
	"context"
	"log/slog"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
	"github.com/giovaniif/e-commerce/catalog/infra/metrics"
	protocols "github.com/giovaniif/e-commerce/catalog/protocols"
)

type Add struct {
	itemRepository     item.Repository
	idempotencyGateway protocols.IdempotencyGateway
	eventPublisher     protocols.EventPublisher
}

func NewAdd(itemRepository item.Repository, idempotencyGateway protocols.IdempotencyGateway, eventPublisher protocols.EventPublisher) *Add {
	return &Add{
		itemRepository:     itemRepository,
		idempotencyGateway: idempotencyGateway,
		eventPublisher:     eventPublisher,
	}
}

// Add stores every valid, unseen candidate. Rejections are reported per
// candidate and never fail the call, even when nothing was added.
func (a *Add) Add(ctx context.Context, input Input) (Output, error) {
	if input.IdempotencyKey == "" {
		return a.add(ctx, input.Candidates), nil
	}

	result, err := a.idempotencyGateway.ReserveIdempotencyKey(ctx, input.IdempotencyKey)
	if err != nil {
		return Output{}, err
	}
	if result != nil {
		return Output{Added: result.Added, Errors: result.Errors}, nil
	}

	success := false
	defer func() {
		if !success {
			_ = a.idempotencyGateway.MarkFailure(ctx, input.IdempotencyKey)
		}
	}()

	output := a.add(ctx, input.Candidates)
	stored := &protocols.IdempotencyKeyResult{Added: output.Added, Errors: output.Errors}
	if err := a.idempotencyGateway.MarkSuccess(ctx, input.IdempotencyKey, stored); err != nil {
		slog.WarnContext(ctx, "failed to store idempotency result", "idempotency_key", input.IdempotencyKey, "error", err)
		return output, nil
	}
	success = true
	return output, nil
}

func (a *Add) add(ctx context.Context, candidates []any) Output {
	result := a.itemRepository.Add(candidates)

	output := Output{
		Added:  result.Added,
		Errors: make([]item.Record, 0, len(result.Rejected)),
	}
	for _, rejection := range result.Rejected {
		metrics.ItemsRejected.WithLabelValues(metrics.RejectReason(rejection.Err)).Inc()
		output.Errors = append(output.Errors, rejection.Render())
	}
	metrics.ItemsAdded.Add(float64(len(result.Added)))

	if len(result.Added) > 0 {
		events := make([]item.Event, 0, len(result.Added))
		for _, added := range result.Added {
			events = append(events, item.NewEvent(item.EventCreated, added, nil))
		}
		if err := a.eventPublisher.Publish(ctx, events...); err != nil {
			metrics.EventPublishFailures.Inc()
			slog.ErrorContext(ctx, "failed to publish item events", "type", item.EventCreated, "count", len(events), "error", err)
		}
	}
	return output
}

type Input struct {
	Candidates     []any
	IdempotencyKey string
}

type Output struct {
	Added  []item.Item   `json:"added"`
	Errors []item.Record `json:"errors"`
}
