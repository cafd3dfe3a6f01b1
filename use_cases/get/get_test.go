package get

import (
	"errors"
	"testing"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
)

type mockRepository struct {
	item.Repository
	findResult item.Item
	findErr    error

	findCalledWithName string
}

func (m *mockRepository) FindByName(name string) (item.Item, error) {
	m.findCalledWithName = name
	return m.findResult, m.findErr
}

func TestGet_Success(t *testing.T) {
	repo := &mockRepository{findResult: item.Item{Name: "widget", Price: "1"}}
	uc := NewGet(repo)

	found, err := uc.Get(Input{Name: "WIDGET"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if found.Name != "widget" {
		t.Fatalf("unexpected item: %+v", found)
	}
	if repo.findCalledWithName != "WIDGET" {
		t.Fatalf("expected FindByName called with WIDGET, got %s", repo.findCalledWithName)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := &mockRepository{findErr: item.NewNotFoundError(item.MsgNotFound)}
	uc := NewGet(repo)

	_, err := uc.Get(Input{Name: "ghost"})
	if !errors.Is(err, item.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
