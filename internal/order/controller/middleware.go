package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"grubdash/internal/domain"
	"grubdash/internal/dto"
	apperrors "grubdash/internal/errors"
	"grubdash/internal/order/validation"
)

const maxBodyBytes = 1 << 20

type ctxKey int

const (
	payloadKey ctxKey = iota
	orderKey
)

func payloadFrom(ctx context.Context) *dto.OrderPayload {
	p, _ := ctx.Value(payloadKey).(*dto.OrderPayload)
	if p == nil {
		return &dto.OrderPayload{}
	}
	return p
}

func orderFrom(ctx context.Context) (domain.Order, bool) {
	o, ok := ctx.Value(orderKey).(domain.Order)
	return o, ok
}

// decodeBody parses the {"data": {...}} envelope once for the rest of the
// chain. An empty body or a missing data object yields an empty payload.
func (c *OrderController) decodeBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dto.OrderRequest
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			c.logger.Debug("rejecting undecodable body", zap.Error(err))
			c.responder.RespondError(w, r, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
				Field:   "body",
				Message: "request body must be valid JSON",
			}))
			return
		}

		payload := req.Data
		if payload == nil {
			payload = &dto.OrderPayload{}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), payloadKey, payload)))
	})
}

// orderExists resolves {orderId} and hands the stored order down the chain.
func (c *OrderController) orderExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order, err := c.service.Get(r.Context(), chi.URLParam(r, "orderId"))
		if err != nil {
			c.responder.RespondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), orderKey, *order)))
	})
}

// payloadCheck adapts a body predicate into chain middleware.
func (c *OrderController) payloadCheck(check func(p *dto.OrderPayload) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := check(payloadFrom(r.Context())); err != nil {
				c.responder.RespondError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// orderCheck adapts a predicate over the request and the resolved order. It
// must run after orderExists.
func (c *OrderController) orderCheck(check func(r *http.Request, order domain.Order) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order, ok := orderFrom(r.Context())
			if !ok {
				c.responder.RespondError(w, r, apperrors.NewInternalError("order check ran before orderExists", nil))
				return
			}
			if err := check(r, order); err != nil {
				c.responder.RespondError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (c *OrderController) requireField(field string) func(http.Handler) http.Handler {
	return c.payloadCheck(func(p *dto.OrderPayload) error {
		return validation.RequireField(p, field)
	})
}

func (c *OrderController) dishesIsList(next http.Handler) http.Handler {
	return c.payloadCheck(validation.DishesIsList)(next)
}

func (c *OrderController) dishQuantities(next http.Handler) http.Handler {
	return c.payloadCheck(validation.DishQuantities)(next)
}

func (c *OrderController) statusKnown(next http.Handler) http.Handler {
	return c.payloadCheck(validation.StatusIsKnown)(next)
}

func (c *OrderController) idMatchesRoute(next http.Handler) http.Handler {
	return c.orderCheck(func(r *http.Request, _ domain.Order) error {
		return validation.IDMatchesRoute(payloadFrom(r.Context()), chi.URLParam(r, "orderId"))
	})(next)
}

func (c *OrderController) statusIsValid(next http.Handler) http.Handler {
	return c.orderCheck(func(r *http.Request, order domain.Order) error {
		return validation.StatusIsValid(payloadFrom(r.Context()), order)
	})(next)
}

func (c *OrderController) deletableStatus(next http.Handler) http.Handler {
	return c.orderCheck(func(_ *http.Request, order domain.Order) error {
		return validation.Deletable(order)
	})(next)
}

// orderFields is the presence, list and quantity prefix shared by create and
// update.
func (c *OrderController) orderFields() []func(http.Handler) http.Handler {
	chain := make([]func(http.Handler) http.Handler, 0, len(validation.RequiredFields)+2)
	for _, field := range validation.RequiredFields {
		chain = append(chain, c.requireField(field))
	}
	return append(chain, c.dishesIsList, c.dishQuantities)
}
