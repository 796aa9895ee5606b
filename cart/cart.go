// Package cart holds the session-scoped shopping cart. Entries snapshot the
// product's name and rate at add time, so catalog edits made after an item
// is carted never change what the customer sees at checkout.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/greenbasket/storefront/models"
)

// ErrInvalidQuantity is returned when an add requests a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Entry is one cart line item: a product snapshot plus a quantity.
type Entry struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns rate × quantity for this entry.
func (e Entry) Subtotal() decimal.Decimal {
	return e.Rate.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cart is the ordered list of entries for one session.
// At most one entry exists per product; adds merge by product id.
type Cart struct {
	Entries []Entry `json:"entries"`
}

// Add merges qty of the product into the cart. An existing entry for the
// same product id has its quantity incremented; otherwise a new entry is
// appended with the product's name and rate captured as of now.
func (c *Cart) Add(p *models.Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Entries {
		if c.Entries[i].ProductID == p.ID {
			c.Entries[i].Quantity += qty
			return nil
		}
	}
	c.Entries = append(c.Entries, Entry{
		ProductID: p.ID,
		Name:      p.Name,
		Rate:      p.Rate,
		Quantity:  qty,
	})
	return nil
}

// Total sums rate × quantity over all entries. An empty cart totals zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.Entries {
		total = total.Add(e.Subtotal())
	}
	return total
}

// Items returns the entries in insertion order.
func (c *Cart) Items() []Entry {
	return c.Entries
}

// Clear empties the cart. Called once checkout completes.
func (c *Cart) Clear() {
	c.Entries = nil
}

// Empty reports whether the cart has no entries.
func (c *Cart) Empty() bool {
	return len(c.Entries) == 0
}
