package catalog

import (
	"fmt"
	"strings"
)

// Item is one sellable entry: a short chat code, a display name, and a unit
// price in whole rupees.
type Item struct {
	Code  string
	Name  string
	Price int64
}

// Catalog is the fixed code->item table. It never mutates after construction.
type Catalog struct {
	items map[string]Item
	order []string
}

// New builds a catalog and rejects duplicate codes.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{items: make(map[string]Item, len(items))}
	for _, item := range items {
		code := strings.TrimSpace(item.Code)
		if code == "" {
			return nil, fmt.Errorf("catalog item %q has an empty code", item.Name)
		}
		if _, exists := c.items[code]; exists {
			return nil, fmt.Errorf("duplicate catalog code %q", code)
		}
		item.Code = code
		c.items[code] = item
		c.order = append(c.order, code)
	}
	return c, nil
}

// Default returns the handmade collection sold by every deployment.
func Default() *Catalog {
	c, err := New([]Item{
		{Code: "1", Name: "Wool Scarf", Price: 450},
		{Code: "2", Name: "Cozy Beanie", Price: 350},
		{Code: "3", Name: "Handcrafted Mug", Price: 250},
		{Code: "4", Name: "Decorative Bowl", Price: 500},
		{Code: "5", Name: "Embroidery Hoop", Price: 650},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup resolves a chat code to its item.
func (c *Catalog) Lookup(code string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	item, ok := c.items[code]
	return item, ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// MenuText renders the chat menu in catalog order.
func (c *Catalog) MenuText() string {
	var b strings.Builder
	b.WriteString("*\u2728 Our Handmade Collection:*\nSelect items by replying with the number:")
	for _, code := range c.order {
		item := c.items[code]
		b.WriteString(fmt.Sprintf("\n%s. %s - \u20b9%d", item.Code, item.Name, item.Price))
	}
	return b.String()
}
