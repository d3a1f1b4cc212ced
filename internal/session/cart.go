package session

import (
	"errors"
	"fmt"
	"strings"

	"tablebook/internal/menu"
	"tablebook/internal/order"
)

var (
	ErrUnknownItem        = errors.New("item is not on the menu")
	ErrItemNotOrderable   = errors.New("item has no price right now")
	ErrQuantityOutOfRange = errors.New("quantity out of range")
)

type cartKey struct {
	category string
	item     string
}

// Cart is a guest's in-progress selection, keyed by (category, item) so the
// same dish name in two categories never collides.
type Cart struct {
	maxPerItem int
	order      []cartKey
	quantities map[cartKey]int
}

func NewCart(maxPerItem int) *Cart {
	if maxPerItem <= 0 {
		maxPerItem = order.DefaultMaxPerItem
	}
	return &Cart{maxPerItem: maxPerItem, quantities: make(map[cartKey]int)}
}

// Set changes the quantity of one item. Zero removes the line.
func (c *Cart) Set(catalog *menu.Catalog, category, item string, qty int) error {
	if qty < 0 || qty > c.maxPerItem {
		return fmt.Errorf("%w: must be between 0 and %d", ErrQuantityOutOfRange, c.maxPerItem)
	}

	k := cartKey{category: strings.TrimSpace(category), item: strings.TrimSpace(item)}
	if qty == 0 {
		c.remove(k)
		return nil
	}

	found, ok := catalog.Lookup(k.category, k.item)
	if !ok {
		return ErrUnknownItem
	}
	if !found.Orderable() {
		return ErrItemNotOrderable
	}

	if _, exists := c.quantities[k]; !exists {
		c.order = append(c.order, k)
	}
	c.quantities[k] = qty
	return nil
}

func (c *Cart) remove(k cartKey) {
	if _, ok := c.quantities[k]; !ok {
		return
	}
	delete(c.quantities, k)
	for i, existing := range c.order {
		if existing == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns the selection in the order items were first added.
func (c *Cart) Snapshot() []order.SelectionLine {
	out := make([]order.SelectionLine, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, order.SelectionLine{
			Category: k.category,
			ItemName: k.item,
			Quantity: c.quantities[k],
		})
	}
	return out
}

func (c *Cart) Empty() bool {
	return len(c.order) == 0
}

func (c *Cart) Reset() {
	c.order = nil
	c.quantities = make(map[cartKey]int)
}
