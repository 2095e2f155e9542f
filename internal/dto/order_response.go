package dto

import (
	"encoding/json"

	"grubdash/internal/domain"
)

type OrderResponse struct {
	Data OrderDTO `json:"data"`
}

type OrderListResponse struct {
	Data []OrderDTO `json:"data"`
}

type OrderDTO struct {
	ID           string    `json:"id"`
	DeliverTo    string    `json:"deliverTo"`
	MobileNumber string    `json:"mobileNumber"`
	Status       string    `json:"status"`
	Dishes       []DishDTO `json:"dishes"`
}

// DishDTO echoes every field the client sent for a dish.
type DishDTO map[string]json.RawMessage

func FromOrder(o domain.Order) OrderDTO {
	dishes := make([]DishDTO, len(o.Dishes))
	for i, d := range o.Dishes {
		dishes[i] = DishDTO(d.Object())
	}

	return OrderDTO{
		ID:           o.ID,
		DeliverTo:    o.DeliverTo,
		MobileNumber: o.MobileNumber,
		Status:       string(o.Status),
		Dishes:       dishes,
	}
}

func FromOrders(orders []domain.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}
