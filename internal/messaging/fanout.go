package messaging

import (
	"context"
	"errors"

	"tablebook/internal/order"
)

// Fanout hands every order to each notifier in turn. One failing notifier
// does not stop the others; their errors are joined.
type Fanout []order.Notifier

func (f Fanout) NotifyOrderPlaced(ctx context.Context, record *order.OrderRecord) error {
	var errs []error
	for _, n := range f {
		if err := n.NotifyOrderPlaced(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
