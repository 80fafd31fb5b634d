package entity

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/nikmy/klaro/internal/kv"
	"github.com/nikmy/klaro/pkg/errors"
)

// index is the ordered list of live ids of one kind, stored as a JSON array.
type index struct {
	backend kv.Backend
	key     string
}

func (i *index) load(ctx context.Context) ([]string, error) {
	data, err := i.backend.Get(ctx, i.key)
	if errors.Is(err, kv.ErrNoKey) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapFailf(err, "read index %s", i.key)
	}

	var ids []string
	err = json.Unmarshal(data, &ids)
	if err != nil {
		return nil, errors.WrapFailf(err, "parse index %s", i.key)
	}
	return ids, nil
}

func (i *index) save(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return errors.WrapFailf(err, "marshal index %s", i.key)
	}

	return errors.WrapFailf(i.backend.Put(ctx, i.key, data), "write index %s", i.key)
}

// add appends id unless it is already listed.
func (i *index) add(ctx context.Context, id string) error {
	ids, err := i.load(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}
	return i.save(ctx, append(ids, id))
}

// remove drops every occurrence of id and reports whether there was one.
// The index is not rewritten when id is absent.
func (i *index) remove(ctx context.Context, id string) (bool, error) {
	ids, err := i.load(ctx)
	if err != nil {
		return false, err
	}

	kept := slices.DeleteFunc(ids, func(x string) bool { return x == id })
	if len(kept) == len(ids) {
		return false, nil
	}
	return true, i.save(ctx, kept)
}
