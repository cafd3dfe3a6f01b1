package gateways

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
	protocols "github.com/giovaniif/e-commerce/catalog/protocols"
)

func newRedisGateway(t *testing.T) (*IdempotencyGatewayRedis, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyGatewayRedis(client, time.Hour), server
}

func testIdempotencyGateway(t *testing.T, gateway protocols.IdempotencyGateway) {
	ctx := context.Background()
	stored := &protocols.IdempotencyKeyResult{
		Added:  []item.Item{{Name: "widget", Price: "1"}},
		Errors: []item.Record{{"name": "gadget", "error": item.MsgMissingFields}},
	}

	result, err := gateway.ReserveIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Nil(t, result, "first reservation runs the request")

	_, err = gateway.ReserveIdempotencyKey(ctx, "key-1")
	assert.ErrorIs(t, err, protocols.ErrKeyInProgress)

	require.NoError(t, gateway.MarkSuccess(ctx, "key-1", stored))
	result, err = gateway.ReserveIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, stored, result)

	_, err = gateway.ReserveIdempotencyKey(ctx, "key-2")
	require.NoError(t, err)
	require.NoError(t, gateway.MarkFailure(ctx, "key-2"))
	result, err = gateway.ReserveIdempotencyKey(ctx, "key-2")
	require.NoError(t, err)
	assert.Nil(t, result, "a failed key can be retried")
}

func TestIdempotencyGatewayMemory(t *testing.T) {
	testIdempotencyGateway(t, NewIdempotencyGatewayMemory())
}

func TestIdempotencyGatewayMemoryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewIdempotencyGatewayMemory().ReserveIdempotencyKey(ctx, "key")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIdempotencyGatewayRedis(t *testing.T) {
	gateway, _ := newRedisGateway(t)
	testIdempotencyGateway(t, gateway)
}

func TestIdempotencyGatewayRedisAppliesTTL(t *testing.T) {
	gateway, server := newRedisGateway(t)

	_, err := gateway.ReserveIdempotencyKey(context.Background(), "key-ttl")
	require.NoError(t, err)

	assert.Equal(t, time.Hour, server.TTL(idempotencyKeyPrefix+"key-ttl"))
	server.FastForward(2 * time.Hour)
	assert.False(t, server.Exists(idempotencyKeyPrefix+"key-ttl"))
}

func TestIdempotencyGatewayRedisUnknownStatus(t *testing.T) {
	gateway, server := newRedisGateway(t)
	require.NoError(t, server.Set(idempotencyKeyPrefix+"key-3", `{"status":"failed"}`))

	result, err := gateway.ReserveIdempotencyKey(context.Background(), "key-3")
	require.NoError(t, err)
	assert.Nil(t, result)

	_, err = gateway.ReserveIdempotencyKey(context.Background(), "key-3")
	assert.ErrorIs(t, err, protocols.ErrKeyInProgress)
}

func TestIdempotencyGatewayRedisCorruptState(t *testing.T) {
	gateway, server := newRedisGateway(t)
	require.NoError(t, server.Set(idempotencyKeyPrefix+"key-4", "not json"))

	_, err := gateway.ReserveIdempotencyKey(context.Background(), "key-4")
	assert.ErrorContains(t, err, "redis unmarshal")
}
