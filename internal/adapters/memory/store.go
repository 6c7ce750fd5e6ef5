// Package memory provides in-memory implementations of the repository ports.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/jsamuelsen/error-normalizer/internal/domain"
)

// Store is an in-memory implementation of ports.UserRepository and
// ports.OrderRepository. It is safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	users        map[string]*domain.User
	usersByEmail map[string]string
	orders       map[string]*domain.Order
	closed       bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:        make(map[string]*domain.User),
		usersByEmail: make(map[string]string),
		orders:       make(map[string]*domain.Order),
	}
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, domain.NewUnavailableError("memory-store", "store closed")
	}

	user, ok := s.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id)
	}

	copied := *user

	return &copied, nil
}

// CreateUser stores a new user. Emails are compared case-insensitively.
func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.NewUnavailableError("memory-store", "store closed")
	}

	email := strings.ToLower(user.Email)
	if _, taken := s.usersByEmail[email]; taken {
		return domain.NewConflictErrorWithDetails("user", "email already registered", user.Email)
	}

	copied := *user
	s.users[user.ID] = &copied
	s.usersByEmail[email] = user.ID

	return nil
}

// ListUsers returns a page of users ordered by creation time, then ID.
func (s *Store) ListUsers(_ context.Context, after domain.Cursor, limit int) (domain.Page[*domain.User], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return domain.Page[*domain.User]{}, domain.NewUnavailableError("memory-store", "store closed")
	}

	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		if after.IsZero() || after.Precedes(u.CreatedAt, u.ID) {
			copied := *u
			users = append(users, &copied)
		}
	}

	slices.SortFunc(users, func(a, b *domain.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	if limit <= 0 || len(users) <= limit {
		return domain.Page[*domain.User]{Items: users}, nil
	}

	last := users[limit-1]

	return domain.Page[*domain.User]{
		Items: users[:limit],
		Next:  &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID},
	}, nil
}

// GetOrder returns the order with the given ID.
func (s *Store) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, domain.NewUnavailableError("memory-store", "store closed")
	}

	order, ok := s.orders[id]
	if !ok {
		return nil, domain.NewNotFoundError("order", id)
	}

	copied := *order

	return &copied, nil
}

// CreateOrder stores a new order.
func (s *Store) CreateOrder(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.NewUnavailableError("memory-store", "store closed")
	}

	if _, exists := s.orders[order.ID]; exists {
		return domain.NewConflictError("order", "duplicate id")
	}

	copied := *order
	s.orders[order.ID] = &copied

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "memory-store"
}

// Check implements ports.HealthChecker.
func (s *Store) Check(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return domain.NewUnavailableError("memory-store", "store closed")
	}

	return nil
}

// Close marks the store unavailable. Subsequent calls return UnavailableError.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}
