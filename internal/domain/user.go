package domain

import "time"

// User is an account that can place orders.
type User struct {
	// ID is the unique identifier for this user.
	ID string

	// Name is the display name.
	Name string

	// Email is unique across users.
	Email string

	// CreatedAt is when the user was registered.
	CreatedAt time.Time
}
