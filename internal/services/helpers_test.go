package services

import (
	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TestShippingAddress = "X"
	TestPhoneNumber     = "555"
	TestPaymentMethod   = "cod"
)

var (
	shopper = domain.Identity{UserID: 1}
	admin   = domain.Identity{UserID: 2, IsAdmin: true}
)

func testDetails() domain.CheckoutDetails {
	return domain.CheckoutDetails{
		ShippingAddress: TestShippingAddress,
		PhoneNumber:     TestPhoneNumber,
		PaymentMethod:   TestPaymentMethod,
	}
}

// newTestStore seeds a shopper (id 1) and an admin (id 2).
func newTestStore() *mocks.MemoryStore {
	s := mocks.NewMemoryStore()
	s.SeedUser("shopper", domain.RoleUser)
	s.SeedUser("admin", domain.RoleAdmin)
	return s
}

func CreateMockOrder(id uint64, userID uint64, total string, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:              id,
		UserID:          userID,
		Total:           decimal.RequireFromString(total),
		Status:          status,
		PaymentMethod:   domain.DefaultPaymentMethod,
		ShippingAddress: TestShippingAddress,
		PhoneNumber:     TestPhoneNumber,
		CreatedAt:       time.Now(),
	}
}
