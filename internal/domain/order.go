package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in the order the dashboard reports them.
var OrderStatuses = []OrderStatus{StatusPending, StatusShipped, StatusDelivered, StatusCancelled}

// DefaultPaymentMethod is cash on delivery.
const DefaultPaymentMethod = "cod"

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range OrderStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", Invalid("unknown order status %q", s)
}

type Order struct {
	ID              uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          uint64          `json:"userId" gorm:"not null;index"`
	Total           decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:enum('pending','shipped','delivered','cancelled');default:'pending';index"`
	PaymentMethod   string          `json:"paymentMethod" gorm:"size:50;not null;default:'cod'"`
	ShippingAddress string          `json:"shippingAddress" gorm:"type:text;not null"`
	PhoneNumber     string          `json:"phoneNumber" gorm:"size:20;not null"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	Items           []OrderItem     `json:"items" gorm:"constraint:OnDelete:CASCADE"`
}

// OrderItem is immutable once written. Price and ProductName are copied from the
// product at checkout and never follow later catalog edits; ProductID becomes nil
// when the product is deleted.
type OrderItem struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID     uint64          `json:"orderId" gorm:"not null;index"`
	ProductID   *uint64         `json:"productId" gorm:"index"`
	Product     *Product        `json:"product,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	ProductName string          `json:"productName" gorm:"size:200;not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

// Subtotal is Price * Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CheckoutDetails are the caller-supplied fields of a new order.
type CheckoutDetails struct {
	ShippingAddress string
	PhoneNumber     string
	PaymentMethod   string
}

func (d CheckoutDetails) Validate() error {
	if strings.TrimSpace(d.ShippingAddress) == "" {
		return Invalid("shipping address is required")
	}
	if strings.TrimSpace(d.PhoneNumber) == "" {
		return Invalid("phone number is required")
	}
	return nil
}

// PriceCart snapshots the current product price of every line into a new pending
// order. Lines must have their Product loaded.
func PriceCart(userID uint64, lines []CartItem, d CheckoutDetails) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	payment := strings.TrimSpace(d.PaymentMethod)
	if payment == "" {
		payment = DefaultPaymentMethod
	}

	order := &Order{
		UserID:          userID,
		Total:           decimal.Zero,
		Status:          StatusPending,
		PaymentMethod:   payment,
		ShippingAddress: d.ShippingAddress,
		PhoneNumber:     d.PhoneNumber,
		Items:           make([]OrderItem, 0, len(lines)),
	}
	for _, l := range lines {
		if l.Product == nil {
			return nil, ErrProductNotFound
		}
		productID := l.ProductID
		item := OrderItem{
			ProductID:   &productID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			Price:       l.Product.Price,
		}
		order.Total = order.Total.Add(item.Subtotal())
		order.Items = append(order.Items, item)
	}
	return order, nil
}

// OrderPatch carries optional admin edits; nil fields are left unchanged.
type OrderPatch struct {
	Status        *string
	PaymentMethod *string
}

// Apply validates the patch and writes the present fields onto o.
func (p OrderPatch) Apply(o *Order) error {
	if p.Status != nil {
		st, err := ParseOrderStatus(*p.Status)
		if err != nil {
			return err
		}
		o.Status = st
	}
	if p.PaymentMethod != nil {
		pm := strings.TrimSpace(*p.PaymentMethod)
		if pm == "" {
			return Invalid("payment method must not be empty")
		}
		o.PaymentMethod = pm
	}
	return nil
}

// Dashboard is the admin summary over orders, users and products.
type Dashboard struct {
	TotalRevenue  decimal.Decimal       `json:"totalRevenue"`
	TotalOrders   int64                 `json:"totalOrders"`
	TotalUsers    int64                 `json:"totalUsers"`
	TotalProducts int64                 `json:"totalProducts"`
	OrderStatus   map[OrderStatus]int64 `json:"orderStatus"`
}
