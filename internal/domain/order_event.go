package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderCreatedEvent struct {
	OrderID   uint64          `json:"orderId"`
	UserID    uint64          `json:"userId"`
	Total     decimal.Decimal `json:"total"`
	Lines     int             `json:"lines"`
	CreatedAt time.Time       `json:"createdAt"`
}

type OrderUpdatedEvent struct {
	OrderID       uint64      `json:"orderId"`
	Status        OrderStatus `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
}
