package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderItemAdded     = "order.item_added"
	EventOrderItemRemoved   = "order.item_removed"
	EventOrderStatusChanged = "order.status_changed"
)

type EventMeta struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Timestamp   time.Time `json:"timestamp"`
}

type OrderCreatedEvent struct {
	EventMeta
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

type OrderItemAddedEvent struct {
	EventMeta
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	StockLeft   int             `json:"stock_left"`
}

type OrderItemRemovedEvent struct {
	EventMeta
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Restored    int    `json:"restored"`
	StockLeft   int    `json:"stock_left"`
}

type OrderStatusChangedEvent struct {
	EventMeta
	FromStatus OrderStatus     `json:"from_status"`
	ToStatus   OrderStatus     `json:"to_status"`
	Total      decimal.Decimal `json:"total"`
}

func NewEventMeta(eventType string, o *Order, at time.Time) EventMeta {
	return EventMeta{
		Type:        eventType,
		OrderID:     o.ID,
		OrderNumber: o.Number,
		Timestamp:   at,
	}
}

func (m EventMeta) EventType() string {
	return m.Type
}
