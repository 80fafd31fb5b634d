package shopping

import "context"

type API interface {
	// Seed writes the demo lists when no list exists yet.
	Seed(ctx context.Context) (seeded bool, err error)

	// All returns every list ordered by name.
	All(ctx context.Context) ([]List, error)

	Get(ctx context.Context, id string) (List, error)
	Exists(ctx context.Context, id string) (bool, error)

	// Count reports the number of indexed lists.
	Count(ctx context.Context) (int, error)

	Create(ctx context.Context, name string) (List, error)
	Rename(ctx context.Context, id string, name string) (List, error)
	Delete(ctx context.Context, id string) (found bool, err error)

	// AddItem puts a new, not completed item on top of the list.
	// Non-positive quantity means one.
	AddItem(ctx context.Context, listID string, name string, quantity int) (Item, error)

	// ToggleItem flips the completion of one item. Unknown items are ignored.
	ToggleItem(ctx context.Context, listID string, itemID string) (List, error)

	// RemoveItem drops one item. Unknown items are ignored.
	RemoveItem(ctx context.Context, listID string, itemID string) (List, error)
}
