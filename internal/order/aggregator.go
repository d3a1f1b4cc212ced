package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tablebook/internal/menu"
)

const DefaultMaxPerItem = 10

// Policy holds the per-deployment order form rules.
type Policy struct {
	PhoneRequired bool
	TableRequired bool
	MaxPerItem    int
}

func DefaultPolicy() Policy {
	return Policy{MaxPerItem: DefaultMaxPerItem}
}

// Aggregator folds selections into priced order records.
type Aggregator struct {
	policy Policy
	now    func() time.Time
	newID  func() uuid.UUID
}

func NewAggregator(policy Policy) *Aggregator {
	if policy.MaxPerItem <= 0 {
		policy.MaxPerItem = DefaultMaxPerItem
	}
	return &Aggregator{policy: policy, now: time.Now, newID: uuid.New}
}

func (a *Aggregator) Policy() Policy {
	return a.policy
}

// BuildOrder validates the customer and selections against the catalog and
// returns the priced record. Checks run in a fixed order and the first
// failure is returned: name, phone, table, then selections. Unit prices are
// looked up in catalog now, never taken from earlier state.
func (a *Aggregator) BuildOrder(catalog *menu.Catalog, selections []SelectionLine, customer CustomerInfo) (*OrderRecord, error) {
	name := strings.TrimSpace(customer.Name)
	if name == "" {
		return nil, invalid(MissingName, "please enter your name")
	}

	phone := strings.TrimSpace(customer.Phone)
	if (a.policy.PhoneRequired || phone != "") && !isPhone(phone) {
		return nil, invalid(InvalidPhone, "phone number must be exactly 10 digits")
	}

	table := strings.TrimSpace(customer.TableNumber)
	if a.policy.TableRequired && table == "" {
		return nil, invalid(MissingTable, "please enter your table number")
	}

	lines, err := a.priceSelections(catalog, selections)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}

	return &OrderRecord{
		id:           a.newID(),
		customerName: name,
		phone:        phone,
		tableNumber:  table,
		placedAt:     a.now(),
		lines:        lines,
		total:        total,
	}, nil
}

func (a *Aggregator) priceSelections(catalog *menu.Catalog, selections []SelectionLine) ([]Line, error) {
	if catalog == nil {
		catalog = menu.EmptyCatalog()
	}
	picks, err := mergeSelections(catalog, selections)
	if err != nil {
		return nil, err
	}
	if len(picks) == 0 {
		return nil, invalid(EmptyOrUnresolvableSelection, "please select at least one item to order")
	}

	lines := make([]Line, 0, len(picks))
	for _, p := range picks {
		if p.quantity > a.policy.MaxPerItem {
			return nil, invalid(InvalidQuantity, "at most %d of %s per order", a.policy.MaxPerItem, p.item.Name)
		}
		unit, ok := p.item.Price.Amount()
		if !ok {
			return nil, invalid(EmptyOrUnresolvableSelection, "%s has no price right now", p.item.Name)
		}

		lines = append(lines, Line{
			Category:  p.item.Category,
			ItemName:  p.item.Name,
			Quantity:  p.quantity,
			UnitPrice: unit,
			LineTotal: unit.Mul(decimal.NewFromInt(int64(p.quantity))),
		})
	}
	return lines, nil
}

type pick struct {
	item     menu.Item
	quantity int
}

// mergeSelections resolves every line against the catalog and folds lines
// that name the same catalog item, whether by category or by name alone. A
// later line replaces an earlier one in place; items left with no quantity
// are dropped. Lines with no quantity never fail to resolve.
func mergeSelections(catalog *menu.Catalog, selections []SelectionLine) ([]pick, error) {
	type key struct{ category, name string }

	var (
		order  []key
		latest = make(map[key]pick, len(selections))
	)
	for _, sel := range selections {
		sel.Category = strings.TrimSpace(sel.Category)
		sel.ItemName = strings.TrimSpace(sel.ItemName)

		item, err := resolve(catalog, sel)
		if err != nil {
			if sel.Quantity <= 0 {
				continue
			}
			return nil, err
		}

		k := key{item.Category, item.Name}
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = pick{item: item, quantity: sel.Quantity}
	}

	out := make([]pick, 0, len(order))
	for _, k := range order {
		if p := latest[k]; p.quantity > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func resolve(catalog *menu.Catalog, sel SelectionLine) (menu.Item, error) {
	if sel.Category != "" {
		item, ok := catalog.Lookup(sel.Category, sel.ItemName)
		if !ok {
			return menu.Item{}, invalid(EmptyOrUnresolvableSelection, "%s / %s is not on the menu", sel.Category, sel.ItemName)
		}
		return item, nil
	}

	matches := catalog.FindByName(sel.ItemName)
	switch len(matches) {
	case 0:
		return menu.Item{}, invalid(EmptyOrUnresolvableSelection, "%s is not on the menu", sel.ItemName)
	case 1:
		return matches[0], nil
	default:
		return menu.Item{}, invalid(EmptyOrUnresolvableSelection,
			"%s is listed in %d categories, choose one", sel.ItemName, len(matches))
	}
}

func isPhone(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
