package shopping

import (
	"slices"
	"strings"

	"github.com/nikmy/klaro/internal/entity"
)

type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Completed bool   `json:"completed"`
}

type List struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

func (l List) GetID() string { return l.ID }

func (l List) WithID(id string) List {
	l.ID = id
	return l
}

const (
	EntityName = "shoppingList"
	IndexName  = "shoppingLists"
)

func Kind() entity.Kind[List] {
	return entity.Kind[List]{
		Name:      EntityName,
		IndexName: IndexName,
		Initial:   List{Items: []Item{}},
		Seed:      seedLists,
		Validate:  validate,
	}
}

func validate(l List) error {
	if strings.TrimSpace(l.Name) == "" {
		return entity.Invalidf("List name is required")
	}

	for _, it := range l.Items {
		switch {
		case it.ID == "":
			return entity.Invalidf("item of list %q has no id", l.ID)
		case strings.TrimSpace(it.Name) == "":
			return entity.Invalidf("Item name is required")
		case it.Quantity < 1:
			return entity.Invalidf("item %q quantity must be positive", it.ID)
		}
	}
	return nil
}

// The transforms below never modify their argument's items in place.

func rename(name string) func(List) List {
	return func(l List) List {
		l.Name = name
		return l
	}
}

func addItem(it Item) func(List) List {
	return func(l List) List {
		items := make([]Item, 0, len(l.Items)+1)
		l.Items = append(append(items, it), l.Items...)
		return l
	}
}

// toggleItem flips Completed of the item with itemID. An unknown id changes nothing.
func toggleItem(itemID string) func(List) List {
	return func(l List) List {
		l.Items = slices.Clone(l.Items)
		for i := range l.Items {
			if l.Items[i].ID == itemID {
				l.Items[i].Completed = !l.Items[i].Completed
			}
		}
		return l
	}
}

// removeItem drops the item with itemID. An unknown id changes nothing.
func removeItem(itemID string) func(List) List {
	return func(l List) List {
		kept := make([]Item, 0, len(l.Items))
		for _, it := range l.Items {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		l.Items = kept
		return l
	}
}
