package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"grubdash/internal/domain"
	"grubdash/internal/dto"
	apperrors "grubdash/internal/errors"
)

type OrderService interface {
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	Create(ctx context.Context, fields domain.Order) (*domain.Order, error)
	Update(ctx context.Context, current domain.Order, fields domain.Order) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrderController struct {
	service   OrderService
	responder *apperrors.Responder
	logger    *zap.Logger
}

func NewOrderController(service OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{
		service:   service,
		responder: apperrors.NewResponder(logger),
		logger:    logger,
	}
}

// RegisterRoutes mounts /orders with the validation chain of each route.
func (c *OrderController) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", c.List)

		create := append([]func(http.Handler) http.Handler{c.decodeBody}, c.orderFields()...)
		create = append(create, c.statusKnown)
		r.With(create...).Post("/", c.Create)

		r.Route("/{orderId}", func(r chi.Router) {
			r.With(c.orderExists).Get("/", c.Read)

			update := append([]func(http.Handler) http.Handler{c.orderExists, c.decodeBody}, c.orderFields()...)
			update = append(update, c.idMatchesRoute, c.statusIsValid)
			r.With(update...).Put("/", c.Update)

			r.With(c.orderExists, c.deletableStatus).Delete("/", c.Delete)
		})
	})
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.List(r.Context())
	if err != nil {
		c.responder.RespondError(w, r, err)
		return
	}

	c.responder.WriteJSON(w, http.StatusOK, dto.OrderListResponse{Data: dto.FromOrders(orders)})
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := payloadFrom(r.Context()).ToOrder()
	if err != nil {
		c.responder.RespondError(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	order, err := c.service.Create(r.Context(), fields)
	if err != nil {
		c.responder.RespondError(w, r, err)
		return
	}

	c.responder.WriteJSON(w, http.StatusCreated, dto.OrderResponse{Data: dto.FromOrder(*order)})
}

func (c *OrderController) Read(w http.ResponseWriter, r *http.Request) {
	order, ok := orderFrom(r.Context())
	if !ok {
		c.responder.RespondError(w, r, apperrors.NewInternalError("order not resolved", nil))
		return
	}

	c.responder.WriteJSON(w, http.StatusOK, dto.OrderResponse{Data: dto.FromOrder(order)})
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	current, ok := orderFrom(r.Context())
	if !ok {
		c.responder.RespondError(w, r, apperrors.NewInternalError("order not resolved", nil))
		return
	}

	fields, err := payloadFrom(r.Context()).ToOrder()
	if err != nil {
		c.responder.RespondError(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	order, err := c.service.Update(r.Context(), current, fields)
	if err != nil {
		c.responder.RespondError(w, r, err)
		return
	}

	c.responder.WriteJSON(w, http.StatusOK, dto.OrderResponse{Data: dto.FromOrder(*order)})
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	order, ok := orderFrom(r.Context())
	if !ok {
		c.responder.RespondError(w, r, apperrors.NewInternalError("order not resolved", nil))
		return
	}

	if err := c.service.Delete(r.Context(), order.ID); err != nil {
		c.responder.RespondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
