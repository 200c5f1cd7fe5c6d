package mysql

import (
	"context"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type store struct {
	db *gorm.DB
}

// NewStore returns a repository.Store backed by db. Transaction maps to a gorm
// transaction, so row locks taken inside fn are held until it returns.
func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Repos() repository.Repositories {
	return newRepositories(s.db)
}

func (s *store) Transaction(ctx context.Context, fn func(r repository.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

func newRepositories(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Users:      NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Products:   NewProductRepository(db),
		Carts:      NewCartRepository(db),
		Wishlists:  NewWishlistRepository(db),
		Orders:     NewOrderRepository(db),
	}
}
