package gateways

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
)

const (
	createItemEventsTable = `CREATE TABLE IF NOT EXISTS item_events (
	id          UUID PRIMARY KEY,
	type        TEXT NOT NULL,
	name        TEXT NOT NULL,
	payload     JSONB NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL
)`
	insertItemEvent = `INSERT INTO item_events (id, type, name, payload, occurred_at) VALUES ($1, $2, $3, $4, $5)`
)

// EventPublisherPostgres appends item events to an audit table. Items
// themselves are never read back from it.
type EventPublisherPostgres struct {
	db *sql.DB
}

func NewEventPublisherPostgres(db *sql.DB) *EventPublisherPostgres {
	return &EventPublisherPostgres{db: db}
}

func OpenEventPublisherPostgres(ctx context.Context, databaseURL string) (*EventPublisherPostgres, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	publisher := NewEventPublisherPostgres(db)
	if err := publisher.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return publisher, nil
}

func (p *EventPublisherPostgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createItemEventsTable); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

func (p *EventPublisherPostgres) Publish(ctx context.Context, events ...item.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres begin: %w", err)
	}
	defer tx.Rollback()

	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("postgres marshal: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertItemEvent, event.Id, string(event.Type), event.Item.Name, payload, event.OccurredAt); err != nil {
			return fmt.Errorf("postgres insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres commit: %w", err)
	}
	return nil
}

func (p *EventPublisherPostgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *EventPublisherPostgres) Close() error {
	return p.db.Close()
}
