package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderEventName string

const (
	OrderCompletedEvent OrderEventName = "order.completed"
	OrderCancelledEvent OrderEventName = "order.cancelled"
)

// OrderEvent 交易 commit 後送出的整合訊息
type OrderEvent struct {
	EventID       string          `json:"eventId"`
	EventName     OrderEventName  `json:"eventName"`
	OrderID       string          `json:"orderId"`
	Status        OrderStatus     `json:"status"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	StaffID       string          `json:"staffId"`
	Items         []OrderItem     `json:"items"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

func NewOrderEvent(eventID string, name OrderEventName, order *Order, at time.Time) OrderEvent {
	return OrderEvent{
		EventID:       eventID,
		EventName:     name,
		OrderID:       order.ID,
		Status:        order.Status,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		StaffID:       order.StaffID,
		Items:         order.Items,
		OccurredAt:    at,
	}
}
