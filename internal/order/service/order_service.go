package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"grubdash/internal/domain"
)

type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	Append(ctx context.Context, order domain.Order) error
	Update(ctx context.Context, order domain.Order) error
	RemoveByID(ctx context.Context, id string) error
}

type IDGenerator interface {
	NewID() string
}

// OrderService performs store operations for requests that already passed
// validation. It does not re-check business rules.
type OrderService struct {
	repo   OrderRepository
	ids    IDGenerator
	logger *zap.Logger
}

func NewOrderService(repo OrderRepository, ids IDGenerator, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		ids:    ids,
		logger: logger,
	}
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores fields under a freshly generated id. A missing status starts
// the order as pending.
func (s *OrderService) Create(ctx context.Context, fields domain.Order) (*domain.Order, error) {
	order := fields.Clone()
	order.ID = s.ids.NewID()
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	if err := s.repo.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	s.logger.Info("order created",
		zap.String("orderId", order.ID),
		zap.String("status", string(order.Status)),
		zap.Int("dishes", len(order.Dishes)),
	)
	return &order, nil
}

// Update overwrites every mutable field of current with fields. The id of
// current is kept whatever fields carries.
func (s *OrderService) Update(ctx context.Context, current domain.Order, fields domain.Order) (*domain.Order, error) {
	updated := current.Clone()
	updated.DeliverTo = fields.DeliverTo
	updated.MobileNumber = fields.MobileNumber
	updated.Status = fields.Status
	updated.Dishes = fields.Clone().Dishes

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("updating order %s: %w", current.ID, err)
	}

	s.logger.Info("order updated",
		zap.String("orderId", updated.ID),
		zap.String("fromStatus", string(current.Status)),
		zap.String("toStatus", string(updated.Status)),
	)
	return &updated, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.repo.RemoveByID(ctx, id); err != nil {
		return fmt.Errorf("deleting order %s: %w", id, err)
	}

	s.logger.Info("order deleted", zap.String("orderId", id))
	return nil
}
