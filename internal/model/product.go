package model

// Product is a catalog entry. Price is in minor currency units (cents).
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Image       string `json:"image,omitempty"`
}

// CartItem references a catalog item and a requested quantity. Cart state is
// owned by the client; the server only sees cart items at checkout creation.
type CartItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// ClampQuantity normalizes the requested quantity against available stock.
// A missing or non-positive quantity defaults to 1; the result never exceeds
// stock and never goes below zero. A zero result means the item is dropped.
func (c CartItem) ClampQuantity(stock int) int {
	q := c.Quantity
	if q <= 0 {
		q = 1
	}
	if stock < 0 {
		stock = 0
	}
	if q > stock {
		q = stock
	}
	return q
}
