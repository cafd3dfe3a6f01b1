package list

import (
	"github.com/giovaniif/e-commerce/catalog/domain/item"
)

type List struct {
	itemRepository item.Repository
}

func NewList(itemRepository item.Repository) *List {
	return &List{
		itemRepository: itemRepository,
	}
}

func (l *List) List() []item.Item {
	return l.itemRepository.ListAll()
}
