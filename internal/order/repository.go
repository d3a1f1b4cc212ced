package order

import "context"

// Sink appends validated orders to a durable log. An empty idempotency key
// means the caller did not ask for deduplication.
type Sink interface {
	Append(ctx context.Context, record *OrderRecord, idempotencyKey string) error
}

// Lister is implemented by sinks that can read orders back, newest first.
type Lister interface {
	List(ctx context.Context, limit int) ([]StoredOrder, error)
}

// Notifier announces placed orders, e.g. to the kitchen.
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, record *OrderRecord) error
}
