package item

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCreated EventType = "item.created"
	EventUpdated EventType = "item.updated"
	EventDeleted EventType = "item.deleted"
)

type Event struct {
	Id         string    `json:"id"`
	Type       EventType `json:"type"`
	Item       Item      `json:"item"`
	Previous   *Item     `json:"previous,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEvent(eventType EventType, it Item, previous *Item) Event {
	return Event{
		Id:         uuid.NewString(),
		Type:       eventType,
		Item:       it,
		Previous:   previous,
		OccurredAt: time.Now().UTC(),
	}
}
