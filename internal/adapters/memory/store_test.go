package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/error-normalizer/internal/domain"
	"github.com/jsamuelsen/error-normalizer/internal/ports"
)

var (
	_ ports.UserRepository  = (*Store)(nil)
	_ ports.OrderRepository = (*Store)(nil)
	_ ports.HealthChecker   = (*Store)(nil)
)

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	user := &domain.User{ID: "u-1", Name: "Ada", Email: "ada@example.com", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))

	got, err := store.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	got.Name = "mutated"
	again, err := store.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.Name, "store must hand out copies")

	_, err = store.GetUser(ctx, "u-404")
	assert.True(t, domain.IsNotFound(err))

	err = store.CreateUser(ctx, &domain.User{ID: "u-2", Email: "ADA@example.com"})
	assert.True(t, domain.IsConflict(err))
}

func TestStore_Orders(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	order := &domain.Order{ID: "o-1", UserID: "u-1", Items: []*domain.OrderItem{{SKU: "x", Quantity: 2}}}
	require.NoError(t, store.CreateOrder(ctx, order))

	got, err := store.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalQuantity())

	assert.True(t, domain.IsConflict(store.CreateOrder(ctx, order)))

	_, err = store.GetOrder(ctx, "missing")
	assert.True(t, domain.IsNotFound(err))
}

func TestStore_Closed(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Check(ctx))
	require.NoError(t, store.Close())

	assert.True(t, domain.IsUnavailable(store.Check(ctx)))

	_, err := store.GetUser(ctx, "u-1")
	assert.True(t, domain.IsUnavailable(err))
	assert.True(t, domain.IsUnavailable(store.CreateOrder(ctx, &domain.Order{ID: "o"})))
}

func TestStore_ListUsers(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"c", "a", "b", "d", "e"} {
		require.NoError(t, store.CreateUser(ctx, &domain.User{
			ID:        id,
			Email:     id + "@example.com",
			CreatedAt: base.Add(time.Duration(i/2) * time.Minute),
		}))
	}

	var (
		ids    []string
		cursor domain.Cursor
		pages  int
	)

	for {
		page, err := store.ListUsers(ctx, cursor, 2)
		require.NoError(t, err)

		pages++

		for _, u := range page.Items {
			ids = append(ids, u.ID)
		}

		if page.Next == nil {
			break
		}

		cursor = *page.Next
	}

	// c and a share a timestamp, as do b and d; ties break on ID.
	assert.Equal(t, []string{"a", "c", "b", "d", "e"}, ids)
	assert.Equal(t, 3, pages)

	require.NoError(t, store.Close())

	_, err := store.ListUsers(ctx, domain.Cursor{}, 2)
	assert.True(t, domain.IsUnavailable(err))
}
