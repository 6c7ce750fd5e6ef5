// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Repositories return domain error types (NotFoundError, ConflictError, ...)
// so the HTTP layer can render them without translation.
package ports

import (
	"context"

	"github.com/jsamuelsen/error-normalizer/internal/domain"
)

// UserRepository persists users.
type UserRepository interface {
	// GetUser returns a *domain.NotFoundError if the user does not exist.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// CreateUser returns a *domain.ConflictError if the email is already taken.
	CreateUser(ctx context.Context, user *domain.User) error

	// ListUsers returns up to limit users ordered by creation time, starting
	// after the cursor. The zero cursor starts at the beginning.
	ListUsers(ctx context.Context, after domain.Cursor, limit int) (domain.Page[*domain.User], error)
}

// OrderRepository persists orders.
type OrderRepository interface {
	// GetOrder returns a *domain.NotFoundError if the order does not exist.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	// CreateOrder stores a new order.
	CreateOrder(ctx context.Context, order *domain.Order) error
}
