package repositories

import (
	"slices"
	"strings"
	"sync"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
)

// ItemRepositoryMemory keeps items in insertion order next to an index of
// the names in use. Both are only changed together, under the write lock.
type ItemRepositoryMemory struct {
	mutex sync.RWMutex
	items []item.Item
	names map[string]struct{}
}

func NewItemRepositoryMemory() *ItemRepositoryMemory {
	return &ItemRepositoryMemory{
		items: make([]item.Item, 0),
		names: make(map[string]struct{}),
	}
}

func (r *ItemRepositoryMemory) ListAll() []item.Item {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return slices.Clone(r.items)
}

func (r *ItemRepositoryMemory) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.items)
}

func (r *ItemRepositoryMemory) FindByName(name string) (item.Item, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	idx := r.indexOf(name)
	if idx < 0 {
		return item.Item{}, item.NewNotFoundError(item.MsgNotFound)
	}
	return r.items[idx], nil
}

// Add tries every candidate on its own; one rejection does not stop the rest.
func (r *ItemRepositoryMemory) Add(candidates []any) item.AddResult {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	result := item.AddResult{
		Added:    make([]item.Item, 0, len(candidates)),
		Rejected: make([]item.Rejection, 0),
	}
	for _, candidate := range candidates {
		record, _ := candidate.(item.Record)
		newItem, err := item.Normalize(record)
		if err != nil {
			result.Rejected = append(result.Rejected, item.Rejection{Record: record, Err: err})
			continue
		}
		if r.hasName(newItem.Name) {
			result.Rejected = append(result.Rejected, item.Rejection{
				Record: record,
				Err:    item.NewDuplicateError(item.MsgDuplicate),
			})
			continue
		}
		r.items = append(r.items, newItem)
		r.names[newItem.Name] = struct{}{}
		result.Added = append(result.Added, newItem)
	}
	return result
}

func (r *ItemRepositoryMemory) Update(targetName string, raw any) (item.UpdateResult, error) {
	if _, isArray := raw.([]any); isArray {
		return item.UpdateResult{}, item.NewValidationError(item.MsgArrayBody)
	}
	record, _ := raw.(item.Record)
	updated, err := item.Normalize(record)
	if err != nil {
		return item.UpdateResult{}, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if updated.Name != strings.ToLower(targetName) && r.hasName(updated.Name) {
		return item.UpdateResult{}, item.NewDuplicateError(item.MsgDuplicateUpdate)
	}
	idx := r.indexOf(targetName)
	if idx < 0 {
		return item.UpdateResult{}, item.NewNotFoundError(item.MsgNotFound)
	}
	prev := r.items[idx]
	r.items[idx] = updated
	delete(r.names, prev.Name)
	r.names[updated.Name] = struct{}{}
	return item.UpdateResult{Prev: prev, Updated: updated}, nil
}

func (r *ItemRepositoryMemory) Delete(targetName string) (item.Item, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	idx := r.indexOf(targetName)
	if idx < 0 {
		return item.Item{}, item.NewNotFoundError(item.MsgNotFound)
	}
	deleted := r.items[idx]
	r.items = slices.Delete(r.items, idx, idx+1)
	delete(r.names, deleted.Name)
	return deleted, nil
}

// indexOf returns the position of the first item, in insertion order, whose
// name matches name case-insensitively, or -1.
func (r *ItemRepositoryMemory) indexOf(name string) int {
	target := strings.ToLower(name)
	for i := 0; i < len(r.items); i++ {
		if r.items[i].Name == target {
			return i
		}
	}
	return -1
}

func (r *ItemRepositoryMemory) hasName(name string) bool {
	_, ok := r.names[name]
	return ok
}
