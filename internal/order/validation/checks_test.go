package validation

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grubdash/internal/domain"
	"grubdash/internal/dto"
	apperrors "grubdash/internal/errors"
)

func str(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

func validPayload() *dto.OrderPayload {
	return &dto.OrderPayload{
		DeliverTo:    str("Rick Sanchez (C-132)"),
		MobileNumber: str("(202) 456-1111"),
		Status:       str("pending"),
		Dishes:       json.RawMessage(`[{"name":"Broccoli and beetroot stir fry","quantity":2}]`),
	}
}

func assertValidation(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %T", err)
	assert.Equal(t, message, ve.Message)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
}

func TestRequireField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		mutate  func(p *dto.OrderPayload)
		message string
	}{
		{"deliverTo missing", FieldDeliverTo, func(p *dto.OrderPayload) { p.DeliverTo = nil }, "Order must include a deliverTo"},
		{"deliverTo empty", FieldDeliverTo, func(p *dto.OrderPayload) { p.DeliverTo = str("") }, "Order must include a deliverTo"},
		{"deliverTo zero", FieldDeliverTo, func(p *dto.OrderPayload) { p.DeliverTo = json.RawMessage(`0`) }, "Order must include a deliverTo"},
		{"deliverTo false", FieldDeliverTo, func(p *dto.OrderPayload) { p.DeliverTo = json.RawMessage(`false`) }, "Order must include a deliverTo"},
		{"deliverTo null", FieldDeliverTo, func(p *dto.OrderPayload) { p.DeliverTo = json.RawMessage(`null`) }, "Order must include a deliverTo"},
		{"mobileNumber missing", FieldMobileNumber, func(p *dto.OrderPayload) { p.MobileNumber = nil }, "Order must include a mobileNumber"},
		{"mobileNumber empty", FieldMobileNumber, func(p *dto.OrderPayload) { p.MobileNumber = str("") }, "Order must include a mobileNumber"},
		{"dishes missing", FieldDishes, func(p *dto.OrderPayload) { p.Dishes = nil }, "Order must include a dishes"},
		{"dishes null", FieldDishes, func(p *dto.OrderPayload) { p.Dishes = json.RawMessage("null") }, "Order must include a dishes"},
		{"dishes empty string", FieldDishes, func(p *dto.OrderPayload) { p.Dishes = json.RawMessage(`""`) }, "Order must include a dishes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)
			assertValidation(t, RequireField(p, tt.field), tt.message)
		})
	}
}

func TestRequireField_Present(t *testing.T) {
	p := validPayload()
	for _, field := range RequiredFields {
		assert.NoError(t, RequireField(p, field))
	}

	// truthy values of any type are present
	p.MobileNumber = json.RawMessage(`5551234`)
	assert.NoError(t, RequireField(p, FieldMobileNumber))
	p.DeliverTo = json.RawMessage(`{"street":"Main"}`)
	assert.NoError(t, RequireField(p, FieldDeliverTo))

	// an empty list is present; the list check rejects it
	p.Dishes = json.RawMessage(`[]`)
	assert.NoError(t, RequireField(p, FieldDishes))
}

func TestRequireField_UnknownField(t *testing.T) {
	err := RequireField(validPayload(), "colour")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
}

func TestDishesIsList(t *testing.T) {
	tests := []struct {
		name   string
		dishes string
	}{
		{"empty list", `[]`},
		{"string", `"pizza"`},
		{"object", `{"name":"pizza"}`},
		{"number", `3`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			p.Dishes = json.RawMessage(tt.dishes)
			assertValidation(t, DishesIsList(p), "Order must include at least one dish")
		})
	}

	assert.NoError(t, DishesIsList(validPayload()))
}

func TestDishQuantities(t *testing.T) {
	tests := []struct {
		name    string
		dishes  string
		message string
	}{
		{"missing", `[{"name":"a"}]`, "Dish 0 must have a quantity that is an integer greater than 0"},
		{"zero", `[{"quantity":0}]`, "Dish 0 must have a quantity that is an integer greater than 0"},
		{"negative at index 1", `[{"quantity":1},{"quantity":-2}]`, "Dish 1 must have a quantity that is an integer greater than 0"},
		{"fraction at index 2", `[{"quantity":1},{"quantity":1},{"quantity":1.5}]`, "Dish 2 must have a quantity that is an integer greater than 0"},
		{"string", `[{"quantity":"2"}]`, "Dish 0 must have a quantity that is an integer greater than 0"},
		{"not an object", `[7]`, "Dish 0 must have a quantity that is an integer greater than 0"},
		{"null dish", `[{"quantity":1},null]`, "Dish 1 must have a quantity that is an integer greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			p.Dishes = json.RawMessage(tt.dishes)
			assertValidation(t, DishQuantities(p), tt.message)
		})
	}
}

func TestDishQuantities_ReportsFirstOffender(t *testing.T) {
	p := validPayload()
	p.Dishes = json.RawMessage(`[{"quantity":2},{"quantity":0},{"quantity":-1}]`)

	err := DishQuantities(p)
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Message, "Dish 1")
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "dishes[1].quantity", ve.Details[0].Field)
}

func TestDishQuantities_Valid(t *testing.T) {
	p := validPayload()
	p.Dishes = json.RawMessage(`[{"quantity":1},{"quantity":12}]`)
	assert.NoError(t, DishQuantities(p))

	// other dish fields are not checked
	p.Dishes = json.RawMessage(`[{"name":5,"price":"9.99","quantity":2},{"quantity":3000000000}]`)
	assert.NoError(t, DishQuantities(p))
}

func TestIDMatchesRoute(t *testing.T) {
	p := validPayload()
	assert.NoError(t, IDMatchesRoute(p, "abc"), "absent id is allowed")

	p.ID = str("")
	assert.NoError(t, IDMatchesRoute(p, "abc"), "empty id is allowed")

	p.ID = str("abc")
	assert.NoError(t, IDMatchesRoute(p, "abc"))

	p.ID = json.RawMessage(`null`)
	assert.NoError(t, IDMatchesRoute(p, "abc"), "null id is allowed")

	p.ID = str("xyz")
	assertValidation(t, IDMatchesRoute(p, "abc"), "Order id does not match route id. Order: xyz, Route: abc")

	p.ID = json.RawMessage(`42`)
	assertValidation(t, IDMatchesRoute(p, "42"), "Order id does not match route id. Order: 42, Route: 42")
}

func TestStatusIsValid(t *testing.T) {
	pending := domain.Order{Status: domain.OrderStatusPending}
	enumMsg := "Order must have a status of pending, preparing, out-for-delivery, delivered"

	p := validPayload()
	p.Status = nil
	assertValidation(t, StatusIsValid(p, pending), enumMsg)

	p.Status = str("")
	assertValidation(t, StatusIsValid(p, pending), enumMsg)

	p.Status = str("invalid")
	assertValidation(t, StatusIsValid(p, pending), enumMsg)

	p.Status = json.RawMessage(`1`)
	assertValidation(t, StatusIsValid(p, pending), enumMsg)

	for _, s := range domain.OrderStatuses {
		p.Status = str(string(s))
		assert.NoError(t, StatusIsValid(p, pending), "status %s", s)
	}
}

func TestStatusIsValid_DeliveredOrderIsImmutable(t *testing.T) {
	delivered := domain.Order{Status: domain.OrderStatusDelivered}

	p := validPayload()
	p.Status = str("pending")
	assertValidation(t, StatusIsValid(p, delivered), "A delivered order cannot be changed")
}

func TestStatusIsKnown(t *testing.T) {
	p := validPayload()
	p.Status = nil
	assert.NoError(t, StatusIsKnown(p))

	p.Status = str("")
	assert.NoError(t, StatusIsKnown(p))

	p.Status = str("delivered")
	assert.NoError(t, StatusIsKnown(p))

	p.Status = json.RawMessage(`null`)
	assert.NoError(t, StatusIsKnown(p))

	p.Status = str("lost")
	assertValidation(t, StatusIsKnown(p), "Order must have a status of pending, preparing, out-for-delivery, delivered")

	p.Status = json.RawMessage(`["pending"]`)
	assertValidation(t, StatusIsKnown(p), "Order must have a status of pending, preparing, out-for-delivery, delivered")
}

func TestDeletable(t *testing.T) {
	assert.NoError(t, Deletable(domain.Order{Status: domain.OrderStatusPending}))

	for _, s := range []domain.OrderStatus{
		domain.OrderStatusPreparing,
		domain.OrderStatusOutForDelivery,
		domain.OrderStatusDelivered,
	} {
		assertValidation(t, Deletable(domain.Order{Status: s}), "An order cannot be deleted unless it is pending")
	}
}
