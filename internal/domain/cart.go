package domain

import "sync"

// ErrProductUnavailable is reported when a product cannot be added to the
// cart because its snapshot shows it unavailable or out of stock.
var ErrProductUnavailable = NewError(KindValidation, "product is not available for sale")

// CartLine is one product-and-quantity entry in the cart. Name and unit
// price are snapshots taken at add time; they are used for display and
// re-validated server-side only at submission.
type CartLine struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

func (l CartLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart is the in-memory line-item aggregate for one checkout session.
// Insertion order is preserved for display. All mutation goes through these
// methods; at most one line exists per product id.
type Cart struct {
	mu    sync.Mutex
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Add merges qty into an existing line for the product or appends a new line
// at the end. Quantities below 1 count as 1. Products whose snapshot is not
// sellable are rejected with ErrProductUnavailable and the cart is untouched.
func (c *Cart) Add(p Product, qty int) error {
	if !p.Sellable() {
		return ErrProductUnavailable
	}
	if qty < 1 {
		qty = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	c.lines = append(c.lines, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
	})
	return nil
}

// Remove deletes the line for the product if present, no-op otherwise.
func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

func (c *Cart) removeLocked(productID int64) {
	for i, l := range c.lines {
		if l.ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the line's quantity. A quantity below 1 removes the
// line. Unknown product ids are a no-op.
func (c *Cart) SetQuantity(productID int64, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if qty < 1 {
		c.removeLocked(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = qty
			return
		}
	}
}

// Decrement lowers the line's quantity by one. Quantity never drops below 1
// this way; decrementing from 1 is a no-op. Removal is a distinct operation.
func (c *Cart) Decrement(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if c.lines[i].Quantity > 1 {
				c.lines[i].Quantity--
			}
			return
		}
	}
}

// Clear empties all lines.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Total is recomputed from the current lines on every call.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}
