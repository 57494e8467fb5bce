package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusAccepted, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}

	return false
}

type PaymentMethod string

const (
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodCheck  PaymentMethod = "check"
	PaymentMethodPaypal PaymentMethod = "paypal"
)

// OrderItem is a frozen copy of a cart line. ProductID becomes nil once the
// product is deleted; Name and Price never change after checkout.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID *int64          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (i OrderItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID            uuid.UUID       `json:"id"`
	ProfileID     int64           `json:"profile_id"`
	FullName      string          `json:"full_name"`
	Phone         string          `json:"phone"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        OrderStatus     `json:"status"`
	IsProcessed   bool            `json:"is_processed"`
	Items         []OrderItem     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SetItems attaches items and recomputes the order total from them.
func (o *Order) SetItems(items []OrderItem) {
	o.Items = items
	o.Total = decimal.Zero
	for _, item := range items {
		o.Total = o.Total.Add(item.Total())
	}
}

type CheckoutRequest struct {
	FullName      string        `json:"full_name" validate:"max=255"`
	Phone         string        `json:"phone" validate:"max=20"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"omitempty,oneof=bank check paypal"`
}

type OrderListFilter struct {
	Status   OrderStatus
	Page     int
	PageSize int
}
