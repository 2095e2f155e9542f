package domain

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
)

// OrderStatuses lists every accepted status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

func (s OrderStatus) IsValid() bool {
	return slices.Contains(OrderStatuses, s)
}

const dishQuantityKey = "quantity"

// Dish is one line of an order. Quantity is the only field the service
// interprets. Every other field the client sent is kept untouched in
// Attributes.
type Dish struct {
	Quantity   int
	Attributes map[string]json.RawMessage
}

// NewDish builds a dish from a decoded JSON object. Any quantity key in object
// is replaced by quantity.
func NewDish(quantity int, object map[string]json.RawMessage) Dish {
	attrs := maps.Clone(object)
	delete(attrs, dishQuantityKey)
	return Dish{Quantity: quantity, Attributes: attrs}
}

// Object returns the dish as a JSON object, quantity included.
func (d Dish) Object() map[string]json.RawMessage {
	obj := make(map[string]json.RawMessage, len(d.Attributes)+1)
	maps.Copy(obj, d.Attributes)
	obj[dishQuantityKey] = json.RawMessage(strconv.Itoa(d.Quantity))
	return obj
}

func (d Dish) Clone() Dish {
	d.Attributes = maps.Clone(d.Attributes)
	return d
}

type Order struct {
	ID           string
	DeliverTo    string
	MobileNumber string
	Status       OrderStatus
	Dishes       []Dish
}

func (o Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}

func (o Order) IsDeletable() bool {
	return o.Status == OrderStatusPending
}

// Clone returns a copy that shares no dish storage with o.
func (o Order) Clone() Order {
	if o.Dishes == nil {
		return o
	}
	dishes := make([]Dish, len(o.Dishes))
	for i, d := range o.Dishes {
		dishes[i] = d.Clone()
	}
	o.Dishes = dishes
	return o
}
