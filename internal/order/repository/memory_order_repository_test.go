package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grubdash/internal/domain"
	"grubdash/internal/errors"
)

func testOrder(id string, status domain.OrderStatus) domain.Order {
	return domain.Order{
		ID:           id,
		DeliverTo:    "308 Negra Arroyo Lane, Albuquerque, NM",
		MobileNumber: "(505) 143-3369",
		Status:       status,
		Dishes:       []domain.Dish{namedDish("Dolcelatte and chickpea spaghetti", 1)},
	}
}

func namedDish(name string, quantity int) domain.Dish {
	encoded, _ := json.Marshal(name)
	return domain.Dish{Quantity: quantity, Attributes: map[string]json.RawMessage{"name": encoded}}
}

func ids(orders []domain.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestMemoryOrderRepository_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Append(ctx, testOrder(id, domain.OrderStatusPending)))
	}

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(orders))
}

func TestMemoryOrderRepository_ListEmpty(t *testing.T) {
	orders, err := NewMemoryOrderRepository().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestMemoryOrderRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository(testOrder("1", domain.OrderStatusPending))

	order, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", order.ID)

	order, err = repo.FindByID(ctx, "missing")
	assert.Nil(t, order)
	nfe, ok := errors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "Order missing not found", nfe.Message)
}

func TestMemoryOrderRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository(testOrder("1", domain.OrderStatusPending))

	order, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	order.Status = domain.OrderStatusDelivered
	order.Dishes[0].Quantity = 99
	order.Dishes[0].Attributes["name"] = json.RawMessage(`"Fries"`)

	stored, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Status)
	assert.Equal(t, 1, stored.Dishes[0].Quantity)
	assert.Equal(t, json.RawMessage(`"Dolcelatte and chickpea spaghetti"`), stored.Dishes[0].Attributes["name"])
}

func TestMemoryOrderRepository_Append_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository(testOrder("1", domain.OrderStatusPending))

	err := repo.Append(ctx, testOrder("1", domain.OrderStatusPreparing))
	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryOrderRepository_Append_RequiresID(t *testing.T) {
	err := NewMemoryOrderRepository().Append(context.Background(), testOrder("", domain.OrderStatusPending))
	assert.Error(t, err)
}

func TestMemoryOrderRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository(
		testOrder("1", domain.OrderStatusPending),
		testOrder("2", domain.OrderStatusPending),
	)

	updated := testOrder("1", domain.OrderStatusPreparing)
	updated.DeliverTo = "elsewhere"
	require.NoError(t, repo.Update(ctx, updated))

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(orders))
	assert.Equal(t, "elsewhere", orders[0].DeliverTo)
	assert.Equal(t, domain.OrderStatusPreparing, orders[0].Status)

	err = repo.Update(ctx, testOrder("3", domain.OrderStatusPending))
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMemoryOrderRepository_RemoveByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository(
		testOrder("1", domain.OrderStatusPending),
		testOrder("2", domain.OrderStatusPending),
		testOrder("3", domain.OrderStatusPending),
	)

	require.NoError(t, repo.RemoveByID(ctx, "2"))

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(orders))

	// index must follow the shifted positions
	order, err := repo.FindByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "3", order.ID)

	require.NoError(t, repo.RemoveByID(ctx, "3"))
	orders, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(orders))
}

func TestMemoryOrderRepository_RemoveByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository(testOrder("1", domain.OrderStatusPending))

	err := repo.RemoveByID(ctx, "missing")
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryOrderRepository_RemoveAt_OutOfRange(t *testing.T) {
	repo := NewMemoryOrderRepository(testOrder("1", domain.OrderStatusPending))

	repo.mu.Lock()
	repo.removeAt(-1)
	repo.removeAt(1)
	repo.mu.Unlock()

	assert.Equal(t, 1, repo.Len())
}

func TestMemoryOrderRepository_Reset(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository(testOrder("1", domain.OrderStatusPending))

	repo.Reset()
	assert.Equal(t, 0, repo.Len())

	repo.Reset(testOrder("a", domain.OrderStatusPending), testOrder("a", domain.OrderStatusDelivered), testOrder("b", domain.OrderStatusPending))
	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(orders))
	assert.Equal(t, domain.OrderStatusPending, orders[0].Status)
}
