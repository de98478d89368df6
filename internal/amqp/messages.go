package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"geosales/internal/core"
)

// EventOrderUpserted is published whenever the order system creates or
// changes an order.
const EventOrderUpserted = "order.upserted"

// OrderEventMessage carries the fields of one order that the reports need.
// Total is a decimal string so amounts survive the trip without float rounding.
type OrderEventMessage struct {
	Type            string    `json:"type"`
	OrderID         int64     `json:"order_id"`
	Status          string    `json:"status"`
	ShippingCountry string    `json:"shipping_country"`
	Total           string    `json:"total"`
	CreatedAt       time.Time `json:"created_at"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewOrderEventMessage creates an order.upserted message for o
func NewOrderEventMessage(o core.Order) *OrderEventMessage {
	return &OrderEventMessage{
		Type:            EventOrderUpserted,
		OrderID:         o.ID,
		Status:          o.Status.String(),
		ShippingCountry: o.ShippingCountry,
		Total:           core.RoundMoney(o.Total).StringFixed(2),
		CreatedAt:       o.CreatedAt.UTC(),
		Timestamp:       time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *OrderEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// OrderEventMessageFromJSON creates a message from JSON bytes
func OrderEventMessageFromJSON(data []byte) (*OrderEventMessage, error) {
	var msg OrderEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ToOrder converts the message into a validated order.
func (m *OrderEventMessage) ToOrder() (core.Order, error) {
	if m.Type != EventOrderUpserted {
		return core.Order{}, fmt.Errorf("unsupported event type %q", m.Type)
	}
	status, err := core.ParseOrderStatus(m.Status)
	if err != nil {
		return core.Order{}, err
	}
	total, err := core.ParseMoney(m.Total)
	if err != nil {
		return core.Order{}, err
	}

	o := core.Order{
		ID:              m.OrderID,
		Status:          status,
		ShippingCountry: m.ShippingCountry,
		Total:           total,
		CreatedAt:       m.CreatedAt.UTC(),
	}
	if err := o.Validate(); err != nil {
		return core.Order{}, err
	}
	return o, nil
}
