package repository

import (
	"context"

	"storefront-service/internal/domain"

	"github.com/shopspring/decimal"
)

// LockMode selects the strength of a per-user row lock.
type LockMode int

const (
	// LockShared lets cart mutations for the same user run side by side while
	// excluding a checkout.
	LockShared LockMode = iota
	// LockExclusive serializes the holder against every other locker of the user.
	LockExclusive
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Save(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id uint64) (bool, error)
	Count(ctx context.Context) (int64, error)
	// Lock takes a row lock on the user until the surrounding transaction ends.
	// It reports false when the user does not exist.
	Lock(ctx context.Context, id uint64, mode LockMode) (bool, error)
}

type CategoryRepository interface {
	// GetOrCreate inserts the category if absent and returns the stored row.
	GetOrCreate(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Save(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id uint64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type CartRepository interface {
	// Increment adds one unit of the product, creating the line at quantity 1.
	Increment(ctx context.Context, userID, productID uint64) error
	// SetQuantity reports false when the user has no line for the product.
	SetQuantity(ctx context.Context, userID, productID uint64, qty int) (bool, error)
	Delete(ctx context.Context, userID, productID uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]domain.CartItem, error)
	// ListForUpdate row-locks the user's lines and loads their products in a
	// single read.
	ListForUpdate(ctx context.Context, userID uint64) ([]domain.CartItem, error)
	// DeleteLines removes the given line ids of the user and returns how many
	// were removed.
	DeleteLines(ctx context.Context, userID uint64, ids []uint64) (int64, error)
	DeleteByUser(ctx context.Context, userID uint64) error
	DeleteByProduct(ctx context.Context, productID uint64) error
}

type WishlistRepository interface {
	Find(ctx context.Context, userID, productID uint64) (*domain.WishlistItem, error)
	Create(ctx context.Context, item *domain.WishlistItem) error
	Delete(ctx context.Context, id uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]domain.WishlistItem, error)
	DeleteByUser(ctx context.Context, userID uint64) error
	DeleteByProduct(ctx context.Context, productID uint64) error
}

type OrderRepository interface {
	// Save writes the order and its items.
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
	UpdateFields(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id uint64) (bool, error)
	DeleteByUser(ctx context.Context, userID uint64) error
	// DetachProduct clears the product reference of historical order items.
	DetachProduct(ctx context.Context, productID uint64) error
	Count(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Users      UserRepository
	Categories CategoryRepository
	Products   ProductRepository
	Carts      CartRepository
	Wishlists  WishlistRepository
	Orders     OrderRepository
}

// Store hands out repositories and runs units of work. When fn returns an error
// every write made through its Repositories is rolled back.
type Store interface {
	Repos() Repositories
	Transaction(ctx context.Context, fn func(r Repositories) error) error
}
