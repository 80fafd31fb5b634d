package shopping

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nikmy/klaro/internal/entity"
	"github.com/nikmy/klaro/internal/kv"
	"github.com/nikmy/klaro/pkg/errors"
	"github.com/nikmy/klaro/pkg/logger"
)

func New(backend kv.Backend, log logger.Logger, opts ...entity.Option) (API, error) {
	store, err := entity.NewStore(backend, Kind(), log, opts...)
	if err != nil {
		return nil, errors.WrapFail(err, "init shopping list store")
	}

	return &repoAPI{
		store:     store,
		newItemID: uuid.NewString,
	}, nil
}

type repoAPI struct {
	store     *entity.Store[List]
	newItemID func() string
}

func (r *repoAPI) Seed(ctx context.Context) (bool, error) {
	return r.store.Bootstrap(ctx)
}

func (r *repoAPI) All(ctx context.Context) ([]List, error) {
	lists, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	byName := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(lists, func(a, b List) int {
		return byName.CompareString(a.Name, b.Name)
	})
	return lists, nil
}

func (r *repoAPI) Get(ctx context.Context, id string) (List, error) {
	return r.store.Get(ctx, id)
}

func (r *repoAPI) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.Exists(ctx, id)
}

func (r *repoAPI) Count(ctx context.Context) (int, error) {
	return r.store.Len(ctx)
}

func (r *repoAPI) Create(ctx context.Context, name string) (List, error) {
	return r.store.Create(ctx, List{
		Name:  strings.TrimSpace(name),
		Items: []Item{},
	})
}

func (r *repoAPI) Rename(ctx context.Context, id string, name string) (List, error) {
	return r.store.Mutate(ctx, id, rename(strings.TrimSpace(name)))
}

func (r *repoAPI) Delete(ctx context.Context, id string) (bool, error) {
	return r.store.Delete(ctx, id)
}

func (r *repoAPI) AddItem(ctx context.Context, listID string, name string, quantity int) (Item, error) {
	if quantity < 1 {
		quantity = 1
	}

	it := Item{
		ID:       r.newItemID(),
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
	}

	_, err := r.store.Mutate(ctx, listID, addItem(it))
	if err != nil {
		return Item{}, err
	}
	return it, nil
}

func (r *repoAPI) ToggleItem(ctx context.Context, listID string, itemID string) (List, error) {
	return r.store.Mutate(ctx, listID, toggleItem(itemID))
}

func (r *repoAPI) RemoveItem(ctx context.Context, listID string, itemID string) (List, error) {
	return r.store.Mutate(ctx, listID, removeItem(itemID))
}
