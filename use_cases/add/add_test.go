package add

import (
	"context"
	"errors"
	"testing"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
	protocols "github.com/giovaniif/e-commerce/catalog/protocols"
)

type mockRepository struct {
	item.Repository
	addResult item.AddResult

	addCalls [][]any
}

func (m *mockRepository) Add(candidates []any) item.AddResult {
	m.addCalls = append(m.addCalls, candidates)
	return m.addResult
}

type mockIdempotencyGateway struct {
	reserveResult  *protocols.IdempotencyKeyResult
	reserveErr     error
	markSuccessErr error

	markSuccessKey    string
	markSuccessResult *protocols.IdempotencyKeyResult
	markFailureKey    string
}

func (m *mockIdempotencyGateway) ReserveIdempotencyKey(ctx context.Context, idempotencyKey string) (*protocols.IdempotencyKeyResult, error) {
	return m.reserveResult, m.reserveErr
}

func (m *mockIdempotencyGateway) MarkFailure(ctx context.Context, idempotencyKey string) error {
	m.markFailureKey = idempotencyKey
	return nil
}

func (m *mockIdempotencyGateway) MarkSuccess(ctx context.Context, idempotencyKey string, result *protocols.IdempotencyKeyResult) error {
	m.markSuccessKey = idempotencyKey
	m.markSuccessResult = result
	return m.markSuccessErr
}

type mockEventPublisher struct {
	published  []item.Event
	publishErr error
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...item.Event) error {
	m.published = append(m.published, events...)
	return m.publishErr
}

func partialResult() item.AddResult {
	return item.AddResult{
		Added: []item.Item{{Name: "widget", Price: "9.99"}},
		Rejected: []item.Rejection{{
			Record: item.Record{"name": "widget", "price": "1.00"},
			Err:    item.NewDuplicateError(item.MsgDuplicate),
		}},
	}
}

func TestAdd_RendersRejectionsAndPublishes(t *testing.T) {
	repo := &mockRepository{addResult: partialResult()}
	idempotency := &mockIdempotencyGateway{}
	publisher := &mockEventPublisher{}
	uc := NewAdd(repo, idempotency, publisher)

	out, err := uc.Add(context.Background(), Input{Candidates: []any{item.Record{}, item.Record{}}})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.Added) != 1 || out.Added[0].Name != "widget" {
		t.Fatalf("unexpected added: %+v", out.Added)
	}
	if len(out.Errors) != 1 || out.Errors[0]["error"] != "Duplicate item." || out.Errors[0]["price"] != "1.00" {
		t.Fatalf("unexpected errors: %+v", out.Errors)
	}
	if len(publisher.published) != 1 || publisher.published[0].Type != item.EventCreated {
		t.Fatalf("expected one created event, got %+v", publisher.published)
	}
	if idempotency.markSuccessKey != "" {
		t.Fatalf("expected idempotency gateway untouched without a key")
	}
}

func TestAdd_OnlyErrorsStillSucceeds(t *testing.T) {
	repo := &mockRepository{addResult: item.AddResult{
		Added:    []item.Item{},
		Rejected: []item.Rejection{{Err: item.NewValidationError(item.MsgMissingFields)}},
	}}
	publisher := &mockEventPublisher{}
	uc := NewAdd(repo, &mockIdempotencyGateway{}, publisher)

	out, err := uc.Add(context.Background(), Input{Candidates: []any{item.Record{}}})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.Added) != 0 || len(out.Errors) != 1 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if len(publisher.published) != 0 {
		t.Fatalf("expected no events, got %d", len(publisher.published))
	}
}

func TestAdd_PublishErrorIsNotReturned(t *testing.T) {
	repo := &mockRepository{addResult: partialResult()}
	uc := NewAdd(repo, &mockIdempotencyGateway{}, &mockEventPublisher{publishErr: errors.New("broker down")})

	_, err := uc.Add(context.Background(), Input{Candidates: []any{item.Record{}}})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestAdd_StoresResultUnderIdempotencyKey(t *testing.T) {
	repo := &mockRepository{addResult: partialResult()}
	idempotency := &mockIdempotencyGateway{}
	uc := NewAdd(repo, idempotency, &mockEventPublisher{})

	_, err := uc.Add(context.Background(), Input{Candidates: []any{item.Record{}}, IdempotencyKey: "key-1"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if idempotency.markSuccessKey != "key-1" {
		t.Fatalf("expected MarkSuccess called with key-1, got %q", idempotency.markSuccessKey)
	}
	if idempotency.markSuccessResult == nil || len(idempotency.markSuccessResult.Added) != 1 {
		t.Fatalf("expected stored result, got %+v", idempotency.markSuccessResult)
	}
	if idempotency.markFailureKey != "" {
		t.Fatalf("expected MarkFailure not called, got %q", idempotency.markFailureKey)
	}
}

func TestAdd_ReplaysStoredResult(t *testing.T) {
	repo := &mockRepository{}
	idempotency := &mockIdempotencyGateway{reserveResult: &protocols.IdempotencyKeyResult{
		Added:  []item.Item{{Name: "widget", Price: "9.99"}},
		Errors: []item.Record{},
	}}
	publisher := &mockEventPublisher{}
	uc := NewAdd(repo, idempotency, publisher)

	out, err := uc.Add(context.Background(), Input{Candidates: []any{item.Record{}}, IdempotencyKey: "key-1"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.Added) != 1 || out.Added[0].Name != "widget" {
		t.Fatalf("unexpected replayed output: %+v", out)
	}
	if len(repo.addCalls) != 0 {
		t.Fatalf("expected repository untouched on replay, got %d calls", len(repo.addCalls))
	}
	if len(publisher.published) != 0 {
		t.Fatalf("expected no events on replay, got %d", len(publisher.published))
	}
}

func TestAdd_KeyInProgress(t *testing.T) {
	repo := &mockRepository{}
	uc := NewAdd(repo, &mockIdempotencyGateway{reserveErr: protocols.ErrKeyInProgress}, &mockEventPublisher{})

	_, err := uc.Add(context.Background(), Input{IdempotencyKey: "key-1"})
	if !errors.Is(err, protocols.ErrKeyInProgress) {
		t.Fatalf("expected key in progress error, got %v", err)
	}
	if len(repo.addCalls) != 0 {
		t.Fatalf("expected repository untouched, got %d calls", len(repo.addCalls))
	}
}

func TestAdd_MarkSuccessFailureReleasesKey(t *testing.T) {
	repo := &mockRepository{addResult: partialResult()}
	idempotency := &mockIdempotencyGateway{markSuccessErr: errors.New("redis down")}
	uc := NewAdd(repo, idempotency, &mockEventPublisher{})

	out, err := uc.Add(context.Background(), Input{Candidates: []any{item.Record{}}, IdempotencyKey: "key-1"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.Added) != 1 {
		t.Fatalf("expected output to be returned, got %+v", out)
	}
	if idempotency.markFailureKey != "key-1" {
		t.Fatalf("expected MarkFailure called with key-1, got %q", idempotency.markFailureKey)
	}
}
