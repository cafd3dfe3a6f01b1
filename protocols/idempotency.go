package protocols

import (
	"context"
	"errors"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
)

var ErrKeyInProgress = errors.New("idempotency key is already being processed")

type IdempotencyKeyResult struct {
	Added  []item.Item   `json:"added"`
	Errors []item.Record `json:"errors"`
}

type IdempotencyGateway interface {
	ReserveIdempotencyKey(ctx context.Context, idempotencyKey string) (*IdempotencyKeyResult, error)
	MarkFailure(ctx context.Context, idempotencyKey string) error
	MarkSuccess(ctx context.Context, idempotencyKey string, result *IdempotencyKeyResult) error
}
