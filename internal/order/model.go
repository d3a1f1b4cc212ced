package order

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerInfo is what the guest typed into the order form.
type CustomerInfo struct {
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	TableNumber string `json:"table_number,omitempty"`
}

// SelectionLine is one chosen item. Category may be empty for name-only
// selections, which then must match exactly one catalog item.
type SelectionLine struct {
	Category string `json:"category,omitempty"`
	ItemName string `json:"item"`
	Quantity int    `json:"quantity"`
}

// Line is a priced selection inside an OrderRecord.
type Line struct {
	Category  string          `json:"category"`
	ItemName  string          `json:"item"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderRecord is a validated, priced order. It has no setters: once built it
// can be appended, retried and published without changing.
type OrderRecord struct {
	id           uuid.UUID
	customerName string
	phone        string
	tableNumber  string
	placedAt     time.Time
	lines        []Line
	total        decimal.Decimal
}

func (r *OrderRecord) ID() uuid.UUID        { return r.id }
func (r *OrderRecord) CustomerName() string { return r.customerName }
func (r *OrderRecord) Phone() string        { return r.phone }
func (r *OrderRecord) TableNumber() string  { return r.tableNumber }
func (r *OrderRecord) PlacedAt() time.Time  { return r.placedAt }
func (r *OrderRecord) Total() decimal.Decimal {
	return r.total
}

// Lines returns a copy of the order lines in selection order.
func (r *OrderRecord) Lines() []Line {
	out := make([]Line, len(r.lines))
	copy(out, r.lines)
	return out
}

// Summary renders the lines as "item(qty), item(qty)" in selection order.
func (r *OrderRecord) Summary() string {
	parts := make([]string, 0, len(r.lines))
	for _, l := range r.lines {
		parts = append(parts, fmt.Sprintf("%s(%d)", l.ItemName, l.Quantity))
	}
	return strings.Join(parts, ", ")
}

type recordJSON struct {
	ID           uuid.UUID       `json:"id"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone,omitempty"`
	TableNumber  string          `json:"table_number,omitempty"`
	PlacedAt     time.Time       `json:"placed_at"`
	Lines        []Line          `json:"lines"`
	Summary      string          `json:"summary"`
	Total        decimal.Decimal `json:"total_price"`
}

func (r *OrderRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		ID:           r.id,
		CustomerName: r.customerName,
		Phone:        r.phone,
		TableNumber:  r.tableNumber,
		PlacedAt:     r.placedAt,
		Lines:        r.lines,
		Summary:      r.Summary(),
		Total:        r.total,
	})
}

// StoredOrder is an order as read back from the order log.
type StoredOrder struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone,omitempty"`
	TableNumber  string          `json:"table_number,omitempty"`
	PlacedAt     time.Time       `json:"placed_at"`
	Summary      string          `json:"summary"`
	Total        decimal.Decimal `json:"total_price"`
}

func storedFrom(r *OrderRecord) StoredOrder {
	return StoredOrder{
		ID:           r.id.String(),
		CustomerName: r.customerName,
		Phone:        r.phone,
		TableNumber:  r.tableNumber,
		PlacedAt:     r.placedAt,
		Summary:      r.Summary(),
		Total:        r.total,
	}
}
