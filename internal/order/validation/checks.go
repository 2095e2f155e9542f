// Package validation holds the request checks that guard order mutations.
//
// Every check is a pure function over the decoded payload and, where needed,
// the stored order. It returns nil when the request may proceed or a typed
// application error describing the first violation it finds.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"grubdash/internal/domain"
	"grubdash/internal/dto"
	apperrors "grubdash/internal/errors"
)

const (
	FieldDeliverTo    = "deliverTo"
	FieldMobileNumber = "mobileNumber"
	FieldDishes       = "dishes"
)

// RequiredFields is the presence order used by create and update.
var RequiredFields = []string{FieldDeliverTo, FieldMobileNumber, FieldDishes}

var (
	msgNoDishes     = "Order must include at least one dish"
	msgDelivered    = "A delivered order cannot be changed"
	msgNotDeletable = "An order cannot be deleted unless it is pending"
	msgBadStatus    = "Order must have a status of " + joinStatuses()
)

func joinStatuses() string {
	names := make([]string, len(domain.OrderStatuses))
	for i, s := range domain.OrderStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func RequireField(p *dto.OrderPayload, field string) error {
	var present bool
	switch field {
	case FieldDeliverTo:
		present = !dto.IsFalsy(p.DeliverTo)
	case FieldMobileNumber:
		present = !dto.IsFalsy(p.MobileNumber)
	case FieldDishes:
		present = !dto.IsFalsy(p.Dishes)
	default:
		return apperrors.NewInternalError("unknown order field "+field, nil)
	}

	if present {
		return nil
	}
	msg := "Order must include a " + field
	return apperrors.NewValidationError(msg, apperrors.ValidationDetail{Field: field, Message: msg})
}

func DishesIsList(p *dto.OrderPayload) error {
	dishes, ok := p.DishList()
	if ok && len(dishes) > 0 {
		return nil
	}
	return apperrors.NewValidationError(msgNoDishes, apperrors.ValidationDetail{
		Field:   FieldDishes,
		Message: msgNoDishes,
	})
}

// DishQuantities rejects the first dish whose quantity is missing, not an
// integer, or not greater than zero.
func DishQuantities(p *dto.OrderPayload) error {
	dishes, ok := p.DishList()
	if !ok {
		return DishesIsList(p)
	}

	for i, raw := range dishes {
		dish, err := dto.DecodeDish(raw)
		if err == nil {
			if _, ok := dish.PositiveInt(); ok {
				continue
			}
		}
		msg := fmt.Sprintf("Dish %d must have a quantity that is an integer greater than 0", i)
		return apperrors.NewValidationError(msg, apperrors.ValidationDetail{
			Field:   "dishes[" + strconv.Itoa(i) + "].quantity",
			Message: msg,
		})
	}
	return nil
}

// IDMatchesRoute allows a body without an id. A present id must be the route
// id as a JSON string.
func IDMatchesRoute(p *dto.OrderPayload, routeID string) error {
	if dto.IsFalsy(p.ID) {
		return nil
	}
	if id, ok := dto.StringValue(p.ID); ok && id == routeID {
		return nil
	}
	msg := fmt.Sprintf("Order id does not match route id. Order: %s, Route: %s", dto.Text(p.ID), routeID)
	return apperrors.NewValidationError(msg, apperrors.ValidationDetail{Field: "id", Message: msg})
}

// StatusIsValid guards updates: the new status must be known and the stored
// order must not be delivered yet.
func StatusIsValid(p *dto.OrderPayload, current domain.Order) error {
	status, ok := dto.StringValue(p.Status)
	if !ok || !domain.OrderStatus(status).IsValid() {
		return badStatus()
	}
	if current.IsDelivered() {
		return apperrors.NewValidationError(msgDelivered, apperrors.ValidationDetail{
			Field:   "status",
			Message: msgDelivered,
		})
	}
	return nil
}

// StatusIsKnown guards creates, where a falsy status counts as omitted.
func StatusIsKnown(p *dto.OrderPayload) error {
	if dto.IsFalsy(p.Status) {
		return nil
	}
	if status, ok := dto.StringValue(p.Status); ok && domain.OrderStatus(status).IsValid() {
		return nil
	}
	return badStatus()
}

func Deletable(o domain.Order) error {
	if o.IsDeletable() {
		return nil
	}
	return apperrors.NewValidationError(msgNotDeletable, apperrors.ValidationDetail{
		Field:   "status",
		Message: msgNotDeletable,
	})
}

func badStatus() error {
	return apperrors.NewValidationError(msgBadStatus, apperrors.ValidationDetail{
		Field:   "status",
		Message: msgBadStatus,
	})
}
