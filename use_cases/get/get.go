package get

import (
	"github.com/giovaniif/e-commerce/catalog/domain/item"
)

type Get struct {
	itemRepository item.Repository
}

func NewGet(itemRepository item.Repository) *Get {
	return &Get{
		itemRepository: itemRepository,
	}
}

func (g *Get) Get(input Input) (item.Item, error) {
	return g.itemRepository.FindByName(input.Name)
}

type Input struct {
	Name string
}
