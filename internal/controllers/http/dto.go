package http

import (
	"storefront-service/internal/domain"
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type ProductIDRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
}

type UpdateCartRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Qty       *int   `json:"qty" binding:"required"`
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	PhoneNumber     string `json:"phoneNumber"`
	PaymentMethod   string `json:"paymentMethod"`
}

type CreateOrderResponse struct {
	OrderID uint64 `json:"orderId"`
}

type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    string           `json:"category"`
	Image       string           `json:"image"`
}

func (r CreateProductRequest) input() domain.ProductInput {
	return domain.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Category:    r.Category,
		Image:       r.Image,
	}
}

// UpdateProductRequest leaves a field unchanged when it is absent from the body.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Image       *string          `json:"image"`
	IsActive    *bool            `json:"isActive"`
}

func (r UpdateProductRequest) patch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Image:       r.Image,
		IsActive:    r.IsActive,
	}
}

type UpdateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentMethod *string `json:"paymentMethod"`
}

type ProductResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// money renders amounts with exactly two decimals.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toProduct(p *domain.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		Category:    p.CategoryName(),
		Image:       p.Image,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

func toProducts(ps []domain.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(ps))
	for i := range ps {
		out = append(out, toProduct(&ps[i]))
	}
	return out
}

type CartLineResponse struct {
	ID       uint64           `json:"id"`
	Product  *ProductResponse `json:"product"`
	Quantity int              `json:"quantity"`
}

func toCart(lines []domain.CartItem) []CartLineResponse {
	out := make([]CartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, CartLineResponse{ID: l.ID, Product: toProduct(l.Product), Quantity: l.Quantity})
	}
	return out
}

type WishlistItemResponse struct {
	ID      uint64           `json:"id"`
	Product *ProductResponse `json:"product"`
}

func toWishlist(items []domain.WishlistItem) []WishlistItemResponse {
	out := make([]WishlistItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, WishlistItemResponse{ID: it.ID, Product: toProduct(it.Product)})
	}
	return out
}

// OrderItemResponse carries the frozen name and price; Product is null once the
// product has been deleted.
type OrderItemResponse struct {
	ID          uint64           `json:"id"`
	ProductID   *uint64          `json:"productId"`
	Product     *ProductResponse `json:"product"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity"`
	Price       string           `json:"price"`
}

type OrderResponse struct {
	ID              uint64              `json:"id"`
	UserID          uint64              `json:"userId"`
	Items           []OrderItemResponse `json:"items"`
	Total           string              `json:"total"`
	Status          domain.OrderStatus  `json:"status"`
	PaymentMethod   string              `json:"paymentMethod"`
	ShippingAddress string              `json:"shippingAddress"`
	PhoneNumber     string              `json:"phoneNumber"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func toOrder(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Product:     toProduct(it.Product),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       money(it.Price),
		})
	}
	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		Total:           money(o.Total),
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: o.ShippingAddress,
		PhoneNumber:     o.PhoneNumber,
		CreatedAt:       o.CreatedAt,
	}
}

func toOrders(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrder(&orders[i]))
	}
	return out
}

type UserResponse struct {
	ID        uint64      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

func toUser(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

type DashboardResponse struct {
	TotalRevenue  string                       `json:"totalRevenue"`
	TotalOrders   int64                        `json:"totalOrders"`
	TotalUsers    int64                        `json:"totalUsers"`
	TotalProducts int64                        `json:"totalProducts"`
	OrderStatus   map[domain.OrderStatus]int64 `json:"orderStatus"`
}

func toDashboard(d *domain.Dashboard) DashboardResponse {
	return DashboardResponse{
		TotalRevenue:  money(d.TotalRevenue),
		TotalOrders:   d.TotalOrders,
		TotalUsers:    d.TotalUsers,
		TotalProducts: d.TotalProducts,
		OrderStatus:   d.OrderStatus,
	}
}
