package domain

import "time"

// OrderItem is a single line of an order.
type OrderItem struct {
	SKU      string
	Quantity int
}

// Order is a purchase placed by a user.
type Order struct {
	// ID is a lexicographically sortable identifier.
	ID string

	// UserID references the user who placed the order.
	UserID string

	// Items are the ordered lines. An order always has at least one.
	Items []*OrderItem

	// CreatedAt is when the order was placed.
	CreatedAt time.Time
}

// TotalQuantity sums the quantities of all items.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}

	return total
}
