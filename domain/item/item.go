package item

import (
	"maps"
	"slices"
	"strings"
)

// Item is a catalog entry. Name and Price are always stored lowercased.
type Item struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Record is a raw, not yet normalized request payload.
type Record = map[string]any

// NormalizeKeys lowercases every key and every string value of raw.
// Keys colliding after lowercasing are visited in sorted order, so the last one wins.
func NormalizeKeys(raw Record) Record {
	normalized := make(Record, len(raw))
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := raw[key]
		if s, ok := value.(string); ok {
			value = strings.ToLower(s)
		}
		normalized[strings.ToLower(key)] = value
	}
	return normalized
}

// Normalize turns a raw record into an Item. Name and price must both be
// non-empty strings once lowercased.
func Normalize(raw Record) (Item, error) {
	normalized := NormalizeKeys(raw)
	name, _ := normalized["name"].(string)
	price, _ := normalized["price"].(string)
	if name == "" || price == "" {
		return Item{}, NewValidationError(MsgMissingFields)
	}
	return Item{Name: name, Price: price}, nil
}

// Rejection is a batch candidate that could not be added.
type Rejection struct {
	Record Record
	Err    error
}

// Render returns the caller's original record with the failure message under "error".
func (r Rejection) Render() Record {
	rendered := maps.Clone(r.Record)
	if rendered == nil {
		rendered = Record{}
	}
	rendered["error"] = Message(r.Err)
	return rendered
}

type AddResult struct {
	Added    []Item
	Rejected []Rejection
}

type UpdateResult struct {
	Prev    Item
	Updated Item
}
