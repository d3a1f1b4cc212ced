package menu

import (
	"encoding/json"
	"sort"
	"strings"
)

// Row is one raw record from the menu sheet, addressed by column name.
// Cells are loosely typed: strings from CSV, numbers or bools from JSON.
type Row map[string]any

// Get returns the cell for column. Sheet headers are often typed by hand,
// so a case-insensitive, whitespace-trimmed match is accepted as a fallback.
// When several headers fold to the same column the lowest sorting one wins;
// BuildCatalog refuses such sheets outright.
func (r Row) Get(column string) (any, bool) {
	if v, ok := r[column]; ok {
		return v, true
	}
	keys := r.folded(column)
	if len(keys) == 0 {
		return nil, false
	}
	return r[keys[0]], true
}

// folded lists, sorted, the headers that match column case-insensitively.
func (r Row) folded(column string) []string {
	want := strings.TrimSpace(column)
	var keys []string
	for k := range r {
		if strings.EqualFold(strings.TrimSpace(k), want) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Item is a normalized menu entry. Items inside a Catalog are always
// available and have a non-empty name and category.
type Item struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     Price  `json:"price"`
	Available bool   `json:"available"`

	// SourceRow is the index of the sheet row this item was taken from.
	SourceRow int `json:"source_row"`
}

// Orderable reports whether the item has a usable price.
func (i Item) Orderable() bool {
	return i.Price.IsKnown()
}

func (i Item) sameAs(other Item) bool {
	return i.Name == other.Name &&
		i.Category == other.Category &&
		i.Available == other.Available &&
		i.Price.Equal(other.Price)
}

type category struct {
	name   string
	items  []Item
	byName map[string]int
}

// Catalog is the menu in force for an ordering session: categories in sheet
// order, each holding items keyed by name. It is never modified after
// BuildCatalog returns; accessors hand out copies.
type Catalog struct {
	categories []*category
	index      map[string]int
}

// EmptyCatalog is what a service serves before the first successful load.
func EmptyCatalog() *Catalog {
	return &Catalog{index: map[string]int{}}
}

func (c *Catalog) add(item Item) {
	idx, ok := c.index[item.Category]
	if !ok {
		idx = len(c.categories)
		c.index[item.Category] = idx
		c.categories = append(c.categories, &category{
			name:   item.Category,
			byName: map[string]int{},
		})
	}
	cat := c.categories[idx]
	cat.byName[item.Name] = len(cat.items)
	cat.items = append(cat.items, item)
}

// Categories returns category names in sheet order.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, cat.name)
	}
	return out
}

// Items returns a copy of the items listed under category.
func (c *Catalog) Items(category string) []Item {
	idx, ok := c.index[category]
	if !ok {
		return nil
	}
	items := c.categories[idx].items
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Lookup finds an item by category and name.
func (c *Catalog) Lookup(category, name string) (Item, bool) {
	idx, ok := c.index[category]
	if !ok {
		return Item{}, false
	}
	cat := c.categories[idx]
	i, ok := cat.byName[name]
	if !ok {
		return Item{}, false
	}
	return cat.items[i], true
}

// FindByName returns every item called name, across all categories.
// More than one result means a name-only lookup is ambiguous.
func (c *Catalog) FindByName(name string) []Item {
	var out []Item
	for _, cat := range c.categories {
		if i, ok := cat.byName[name]; ok {
			out = append(out, cat.items[i])
		}
	}
	return out
}

// Len is the total number of items.
func (c *Catalog) Len() int {
	n := 0
	for _, cat := range c.categories {
		n += len(cat.items)
	}
	return n
}

// Equal reports structural equality: same categories, items, order and prices.
func (c *Catalog) Equal(other *Catalog) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.categories) != len(other.categories) {
		return false
	}
	for i, cat := range c.categories {
		o := other.categories[i]
		if cat.name != o.name || len(cat.items) != len(o.items) {
			return false
		}
		for j := range cat.items {
			if !cat.items[j].sameAs(o.items[j]) {
				return false
			}
		}
	}
	return true
}

type categoryJSON struct {
	Name  string     `json:"name"`
	Items []itemJSON `json:"items"`
}

type itemJSON struct {
	Item
	Orderable bool `json:"orderable"`
}

func (c *Catalog) MarshalJSON() ([]byte, error) {
	out := struct {
		Categories []categoryJSON `json:"categories"`
	}{Categories: make([]categoryJSON, 0, len(c.categories))}

	for _, cat := range c.categories {
		cj := categoryJSON{Name: cat.name, Items: make([]itemJSON, 0, len(cat.items))}
		for _, it := range cat.items {
			cj.Items = append(cj.Items, itemJSON{Item: it, Orderable: it.Orderable()})
		}
		out.Categories = append(out.Categories, cj)
	}
	return json.Marshal(out)
}
