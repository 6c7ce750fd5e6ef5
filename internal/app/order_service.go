package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jsamuelsen/error-normalizer/internal/domain"
	"github.com/jsamuelsen/error-normalizer/internal/ports"
)

// maxOrderQuantity caps the total quantity of a single order.
const maxOrderQuantity = 1000

// OrderService orchestrates order use cases.
type OrderService struct {
	users  ports.UserRepository
	orders ports.OrderRepository
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// OrderServiceConfig contains the dependencies of the order service.
type OrderServiceConfig struct {
	Users  ports.UserRepository
	Orders ports.OrderRepository
	Logger *slog.Logger

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time

	// NewID overrides ID generation. Defaults to a monotonic ULID.
	NewID func() string
}

// NewOrderService creates a new order service.
func NewOrderService(cfg OrderServiceConfig) *OrderService {
	svc := &OrderService{
		users:  cfg.Users,
		orders: cfg.Orders,
		logger: cfg.Logger,
		now:    cfg.Now,
		newID:  cfg.NewID,
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	if svc.now == nil {
		svc.now = time.Now
	}

	if svc.newID == nil {
		svc.newID = func() string { return ulid.Make().String() }
	}

	return svc
}

// PlaceOrderInput holds the fields needed to place an order.
type PlaceOrderInput struct {
	UserID string
	Items  []*domain.OrderItem
}

// PlaceOrder creates an order for an existing user.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	if _, err := s.users.GetUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:        s.newID(),
		UserID:    in.UserID,
		Items:     in.Items,
		CreatedAt: s.now(),
	}

	if total := order.TotalQuantity(); total > maxOrderQuantity {
		return nil, domain.NewValidationErrorWithValue("items", "total quantity exceeds 1000", total)
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.Int("items", len(order.Items)),
	)

	return order, nil
}

// GetOrder returns the order with the given ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}
