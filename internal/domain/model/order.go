package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	default:
		return false
	}
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo 只允許 completed -> cancelled
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusCompleted:
		return next == OrderStatusCancelled
	case OrderStatusCancelled:
		return false
	default:
		return false
	}
}

// OrderItem 加入購物車當下的商品快照, 之後商品改價不影響
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
	Quantity  int             `json:"quantity"`
}

func NewOrderItem(p *Product, quantity int) OrderItem {
	return OrderItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Cost:      p.Cost,
		Quantity:  quantity,
	}
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i OrderItem) LineCost() decimal.Decimal {
	return i.Cost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID            string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Items         []OrderItem     `gorm:"type:text;serializer:json" json:"items"`
	Subtotal      decimal.Decimal `gorm:"not null;type:numeric(18,6)" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"not null;type:numeric(18,6)" json:"tax"`
	Total         decimal.Decimal `gorm:"not null;type:numeric(18,6)" json:"total"`
	Profit        decimal.Decimal `gorm:"not null;type:numeric(18,6)" json:"profit"`
	Timestamp     int64           `gorm:"column:placed_at_ms;not null;index" json:"timestamp"` // unix ms
	PaymentMethod PaymentMethod   `gorm:"not null;type:varchar(16)" json:"paymentMethod"`
	StaffID       string          `gorm:"not null;type:varchar(255)" json:"staffId"` // 打卡中員工名稱
	Status        OrderStatus     `gorm:"not null;type:varchar(16);index" json:"status"`
	BaseModel
}
