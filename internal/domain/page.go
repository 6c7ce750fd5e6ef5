package domain

import "time"

// Cursor marks a position in a listing ordered by creation time, then ID.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// IsZero reports whether the cursor points at the start of the listing.
func (c Cursor) IsZero() bool {
	return c.ID == ""
}

// Precedes reports whether the cursor sorts strictly before an item created
// at t with the given id.
func (c Cursor) Precedes(t time.Time, id string) bool {
	if t.Equal(c.CreatedAt) {
		return c.ID < id
	}

	return c.CreatedAt.Before(t)
}

// Page is one slice of an ordered listing. Next is nil on the last page.
type Page[T any] struct {
	Items []T
	Next  *Cursor
}
