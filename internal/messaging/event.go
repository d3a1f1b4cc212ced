package messaging

import (
	"time"

	"tablebook/internal/order"
)

const EventOrderPlaced = "order.placed"

// OrderPlaced is the message the kitchen consumes.
type OrderPlaced struct {
	Event        string       `json:"event"`
	OrderID      string       `json:"order_id"`
	CustomerName string       `json:"customer_name"`
	TableNumber  string       `json:"table_number,omitempty"`
	PlacedAt     time.Time    `json:"placed_at"`
	Summary      string       `json:"summary"`
	Total        string       `json:"total_price"`
	Lines        []order.Line `json:"lines"`
}

// NewOrderPlaced builds the event for record. The phone number stays out of
// the message.
func NewOrderPlaced(record *order.OrderRecord) OrderPlaced {
	return OrderPlaced{
		Event:        EventOrderPlaced,
		OrderID:      record.ID().String(),
		CustomerName: record.CustomerName(),
		TableNumber:  record.TableNumber(),
		PlacedAt:     record.PlacedAt().UTC(),
		Summary:      record.Summary(),
		Total:        record.Total().StringFixed(2),
		Lines:        record.Lines(),
	}
}
