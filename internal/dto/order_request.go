package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"grubdash/internal/domain"
)

// maxQuantity is the largest integer a JSON number carries exactly.
const maxQuantity = 1<<53 - 1

// OrderRequest is the envelope of POST and PUT bodies.
type OrderRequest struct {
	Data *OrderPayload `json:"data"`
}

// OrderPayload keeps every field as raw JSON so checks can tell an absent
// value from a falsy or mistyped one.
type OrderPayload struct {
	ID           json.RawMessage `json:"id"`
	DeliverTo    json.RawMessage `json:"deliverTo"`
	MobileNumber json.RawMessage `json:"mobileNumber"`
	Status       json.RawMessage `json:"status"`
	Dishes       json.RawMessage `json:"dishes"`
}

// DishPayload is a single dishes element. Only quantity is interpreted.
type DishPayload map[string]json.RawMessage

// DishList returns the raw elements of dishes, or false when dishes is not a
// JSON array.
func (p *OrderPayload) DishList() ([]json.RawMessage, bool) {
	raw := bytes.TrimSpace(p.Dishes)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return list, true
}

// DecodeDish parses a single dishes element. It fails for anything that is not
// a JSON object.
func DecodeDish(raw json.RawMessage) (DishPayload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("dish is not an object")
	}
	var d DishPayload
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// PositiveInt reports the quantity when it is a JSON number with no fractional
// part greater than zero.
func (d DishPayload) PositiveInt() (int, bool) {
	raw := bytes.TrimSpace(d["quantity"])
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f <= 0 || f != math.Trunc(f) || f > maxQuantity {
		return 0, false
	}
	return int(f), true
}

// IsFalsy applies loose truthiness to a raw JSON value: absent, null, false,
// 0 and "" are falsy. Arrays and objects, even empty ones, are not.
func IsFalsy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return true
	}
	switch raw[0] {
	case '[', '{':
		return false
	case 'n', 'f':
		return true
	case 't':
		return false
	case '"':
		return string(raw) == `""`
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return true
	}
	return f == 0
}

// StringValue returns raw as a Go string when it is a JSON string.
func StringValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Text renders raw for storage and messages. Strings lose their quotes and any
// other value keeps its JSON literal. Absent or null values render empty.
func Text(raw json.RawMessage) string {
	if s, ok := StringValue(raw); ok {
		return s
	}
	raw = bytes.TrimSpace(raw)
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

// ToOrder builds the order fields carried by a validated payload. The id is
// left empty: the store owns id assignment.
func (p *OrderPayload) ToOrder() (domain.Order, error) {
	list, ok := p.DishList()
	if !ok {
		return domain.Order{}, fmt.Errorf("dishes is not a list")
	}

	dishes := make([]domain.Dish, 0, len(list))
	for i, raw := range list {
		d, err := DecodeDish(raw)
		if err != nil {
			return domain.Order{}, fmt.Errorf("decoding dish %d: %w", i, err)
		}
		qty, ok := d.PositiveInt()
		if !ok {
			return domain.Order{}, fmt.Errorf("dish %d has an invalid quantity", i)
		}
		dishes = append(dishes, domain.NewDish(qty, d))
	}

	status, _ := StringValue(p.Status)

	return domain.Order{
		DeliverTo:    Text(p.DeliverTo),
		MobileNumber: Text(p.MobileNumber),
		Status:       domain.OrderStatus(status),
		Dishes:       dishes,
	}, nil
}
