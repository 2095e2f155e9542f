package repository

import (
	"context"
	"fmt"
	"sync"

	"grubdash/internal/domain"
	"grubdash/internal/errors"
)

// MemoryOrderRepository keeps orders in insertion order with an id index for
// lookups. Values are copied in and out so callers never alias stored dishes.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []domain.Order
	index  map[string]int
}

func NewMemoryOrderRepository(seed ...domain.Order) *MemoryOrderRepository {
	r := &MemoryOrderRepository{}
	r.reset(seed)
	return r
}

func (r *MemoryOrderRepository) List(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Order, len(r.orders))
	for i, o := range r.orders {
		out[i] = o.Clone()
	}
	return out, nil
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[id]
	if !ok {
		return nil, notFound(id)
	}
	order := r.orders[pos].Clone()
	return &order, nil
}

func (r *MemoryOrderRepository) Append(_ context.Context, order domain.Order) error {
	if order.ID == "" {
		return errors.NewInternalError("appending order without id", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[order.ID]; exists {
		return errors.NewConflictError(fmt.Sprintf("Order %s already exists", order.ID))
	}
	r.index[order.ID] = len(r.orders)
	r.orders = append(r.orders, order.Clone())
	return nil
}

// Update overwrites the stored order with the same id, keeping its position.
func (r *MemoryOrderRepository) Update(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[order.ID]
	if !ok {
		return notFound(order.ID)
	}
	r.orders[pos] = order.Clone()
	return nil
}

func (r *MemoryOrderRepository) RemoveByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[id]
	if !ok {
		return notFound(id)
	}
	r.removeAt(pos)
	return nil
}

// Reset replaces the contents with seed, or empties the store.
func (r *MemoryOrderRepository) Reset(seed ...domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset(seed)
}

func (r *MemoryOrderRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

// removeAt must be called with the write lock held. Out of range positions
// are ignored.
func (r *MemoryOrderRepository) removeAt(pos int) {
	if pos < 0 || pos >= len(r.orders) {
		return
	}
	delete(r.index, r.orders[pos].ID)
	r.orders = append(r.orders[:pos], r.orders[pos+1:]...)
	for i := pos; i < len(r.orders); i++ {
		r.index[r.orders[i].ID] = i
	}
}

func (r *MemoryOrderRepository) reset(seed []domain.Order) {
	r.orders = make([]domain.Order, 0, len(seed))
	r.index = make(map[string]int, len(seed))
	for _, o := range seed {
		if _, dup := r.index[o.ID]; dup {
			continue
		}
		r.index[o.ID] = len(r.orders)
		r.orders = append(r.orders, o.Clone())
	}
}

func notFound(id string) error {
	return errors.NewNotFoundError(fmt.Sprintf("Order %s not found", id))
}
