package bills

import (
	"context"
	"slices"
	"strings"

	"github.com/nikmy/klaro/internal/entity"
	"github.com/nikmy/klaro/internal/kv"
	"github.com/nikmy/klaro/pkg/clock"
	"github.com/nikmy/klaro/pkg/errors"
	"github.com/nikmy/klaro/pkg/logger"
)

func New(backend kv.Backend, clk clock.Clock, log logger.Logger, opts ...entity.Option) (API, error) {
	store, err := entity.NewStore(backend, Kind(clk), log, opts...)
	if err != nil {
		return nil, errors.WrapFail(err, "init bill store")
	}
	return &repoAPI{store: store}, nil
}

type repoAPI struct {
	store *entity.Store[Bill]
}

func (r *repoAPI) Seed(ctx context.Context) (bool, error) {
	return r.store.Bootstrap(ctx)
}

func (r *repoAPI) All(ctx context.Context) ([]Bill, error) {
	all, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(all, byDueDate)
	return all, nil
}

func (r *repoAPI) Get(ctx context.Context, id string) (Bill, error) {
	return r.store.Get(ctx, id)
}

func (r *repoAPI) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.Exists(ctx, id)
}

func (r *repoAPI) Count(ctx context.Context) (int, error) {
	return r.store.Len(ctx)
}

func (r *repoAPI) Create(ctx context.Context, name string, amount float64, dueDate string) (Bill, error) {
	return r.store.Create(ctx, Bill{
		Name:    strings.TrimSpace(name),
		Amount:  amount,
		DueDate: strings.TrimSpace(dueDate),
	})
}

func (r *repoAPI) Update(ctx context.Context, id string, patch Patch) (Bill, error) {
	return r.store.Mutate(ctx, id, patch.apply)
}

func (r *repoAPI) Delete(ctx context.Context, id string) (bool, error) {
	return r.store.Delete(ctx, id)
}
