package order

import (
	"go.uber.org/zap"

	"grubdash/internal/order/controller"
	"grubdash/internal/order/service"
)

func NewModule(repo service.OrderRepository, ids service.IDGenerator, logger *zap.Logger) *controller.OrderController {
	svc := service.NewOrderService(repo, ids, logger)
	return controller.NewOrderController(svc, logger)
}
