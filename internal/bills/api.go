package bills

import "context"

type API interface {
	// Seed writes the demo bills of the current month when no bill exists yet.
	Seed(ctx context.Context) (seeded bool, err error)

	// All returns every bill, earliest due first.
	All(ctx context.Context) ([]Bill, error)

	Get(ctx context.Context, id string) (Bill, error)
	Exists(ctx context.Context, id string) (bool, error)

	// Count reports the number of indexed bills.
	Count(ctx context.Context) (int, error)

	// Create registers an unpaid bill.
	Create(ctx context.Context, name string, amount float64, dueDate string) (Bill, error)

	Update(ctx context.Context, id string, patch Patch) (Bill, error)
	Delete(ctx context.Context, id string) (found bool, err error)
}
