package item

type Repository interface {
	ListAll() []Item
	FindByName(name string) (Item, error)
	Add(candidates []any) AddResult
	Update(targetName string, raw any) (UpdateResult, error)
	Delete(targetName string) (Item, error)
	Count() int
}
