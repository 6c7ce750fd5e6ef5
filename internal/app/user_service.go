// Package app contains application services that orchestrate use cases.
// Services depend on port interfaces and return domain errors unchanged so
// the HTTP layer can render them.
package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/error-normalizer/internal/domain"
	"github.com/jsamuelsen/error-normalizer/internal/ports"
)

// UserService orchestrates user use cases.
type UserService struct {
	users  ports.UserRepository
	logger *slog.Logger
	now    func() time.Time
}

// UserServiceConfig contains the dependencies of the user service.
type UserServiceConfig struct {
	Users  ports.UserRepository
	Logger *slog.Logger

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(cfg UserServiceConfig) *UserService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &UserService{users: cfg.Users, logger: logger, now: now}
}

// CreateUserInput holds the fields needed to register a user.
type CreateUserInput struct {
	Name  string
	Email string
}

// GetUser returns the user with the given ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetUser(ctx, id)
}

// ListUsers returns a page of users after the cursor.
func (s *UserService) ListUsers(ctx context.Context, after domain.Cursor, limit int) (domain.Page[*domain.User], error) {
	return s.users.ListUsers(ctx, after, limit)
}

// CreateUser registers a new user.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be blank")
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.TrimSpace(in.Email),
		CreatedAt: s.now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created", slog.String("user_id", user.ID))

	return user, nil
}
