package infra

import (
	"context"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/cache"
)

// ProductCacheInterface is the read-through cache in front of the public catalog.
// A miss is reported as (nil, false, nil); errors are cache faults and callers
// fall back to the database.
type ProductCacheInterface interface {
	GetActive(ctx context.Context) ([]domain.Product, bool, error)
	SetActive(ctx context.Context, products []domain.Product) error
	GetProduct(ctx context.Context, id uint64) (*domain.Product, bool, error)
	SetProduct(ctx context.Context, p *domain.Product) error
	Invalidate(ctx context.Context, ids ...uint64) error
}

var _ ProductCacheInterface = (*cache.ProductCache)(nil)
