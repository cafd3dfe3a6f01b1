package gateways

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
	protocols "github.com/giovaniif/e-commerce/catalog/protocols"
)

// EventPublisherMemory keeps the most recent events in process. Used when no
// broker is configured.
type EventPublisherMemory struct {
	mutex  sync.Mutex
	limit  int
	events []item.Event
}

func NewEventPublisherMemory(limit int) *EventPublisherMemory {
	return &EventPublisherMemory{limit: limit}
}

func (p *EventPublisherMemory) Publish(ctx context.Context, events ...item.Event) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.events = append(p.events, events...)
	if overflow := len(p.events) - p.limit; p.limit > 0 && overflow > 0 {
		p.events = slices.Delete(p.events, 0, overflow)
	}
	return nil
}

func (p *EventPublisherMemory) Events() []item.Event {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return slices.Clone(p.events)
}

// EventPublisherMulti fans events out to every publisher, even when one of them fails.
type EventPublisherMulti struct {
	publishers []protocols.EventPublisher
}

func NewEventPublisherMulti(publishers ...protocols.EventPublisher) *EventPublisherMulti {
	return &EventPublisherMulti{publishers: publishers}
}

func (p *EventPublisherMulti) Publish(ctx context.Context, events ...item.Event) error {
	var errs []error
	for _, publisher := range p.publishers {
		if err := publisher.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
