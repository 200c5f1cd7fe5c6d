package services

import (
	"context"
	"fmt"
	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/repository"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type CatalogService struct {
	store repository.Store
	cache infra.ProductCacheInterface
	group singleflight.Group
}

// NewCatalogService builds the public catalog. cache may be nil.
func NewCatalogService(s repository.Store, cache infra.ProductCacheInterface) *CatalogService {
	return &CatalogService{store: s, cache: cache}
}

// ListActive returns the products shown to shoppers, through the cache when one
// is configured. Concurrent misses share a single database read.
func (s *CatalogService) ListActive(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		products, ok, err := s.cache.GetActive(ctx)
		if err != nil {
			zap.L().Warn("product cache read failed", zap.Error(err))
		} else if ok {
			return products, nil
		}
	}

	v, err, _ := s.group.Do("active", func() (any, error) {
		// Shared by every waiter on the key, so the first caller's cancellation
		// must not fail the others.
		ctx := context.WithoutCancel(ctx)
		products, err := s.store.Repos().Products.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetActive(ctx, products); err != nil {
				zap.L().Warn("product cache write failed", zap.Error(err))
			}
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Get returns an active product; inactive and unknown ids are both not found.
func (s *CatalogService) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	if s.cache != nil {
		p, ok, err := s.cache.GetProduct(ctx, id)
		if err != nil {
			zap.L().Warn("product cache read failed", zap.Uint64("productId", id), zap.Error(err))
		} else if ok {
			return p, nil
		}
	}

	v, err, _ := s.group.Do(fmt.Sprintf("product:%d", id), func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		p, err := s.store.Repos().Products.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil || !p.IsActive {
			return nil, domain.ErrProductNotFound
		}
		if s.cache != nil {
			if err := s.cache.SetProduct(ctx, p); err != nil {
				zap.L().Warn("product cache write failed", zap.Uint64("productId", id), zap.Error(err))
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.store.Repos().Categories.List(ctx)
}

// Invalidate drops cached listings after a catalog write.
func (s *CatalogService) Invalidate(ctx context.Context, ids ...uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		zap.L().Warn("product cache invalidation failed", zap.Error(err))
	}
}

type ImportResult struct {
	Categories int
	Created    int
	Updated    int
}

// Import upserts products by name. Existing products get the seed's description,
// price and category and are reactivated; images are only set on creation.
func (s *CatalogService) Import(ctx context.Context, seeds []domain.ProductSeed) (*ImportResult, error) {
	res := &ImportResult{}
	var touched []uint64

	err := s.store.Transaction(ctx, func(r repository.Repositories) error {
		categories := make(map[string]*domain.Category)
		for i, seed := range seeds {
			in := domain.ProductInput{
				Name:        strings.TrimSpace(seed.Name),
				Description: seed.Description,
				Price:       seed.Price,
				Category:    strings.TrimSpace(seed.Category),
				Image:       seed.Image,
			}
			if err := in.Validate(); err != nil {
				return fmt.Errorf("seed %d: %w", i, err)
			}

			var categoryID *uint64
			if in.Category != "" {
				c, ok := categories[in.Category]
				if !ok {
					var err error
					c, err = r.Categories.GetOrCreate(ctx, in.Category)
					if err != nil {
						return err
					}
					categories[in.Category] = c
				}
				categoryID = &c.ID
			}

			existing, err := r.Products.FindByName(ctx, in.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				existing.Description = in.Description
				existing.Price = in.Price
				existing.CategoryID = categoryID
				existing.Category = nil
				existing.IsActive = true
				if err := r.Products.Save(ctx, existing); err != nil {
					return err
				}
				touched = append(touched, existing.ID)
				res.Updated++
				continue
			}

			p := &domain.Product{
				Name:        in.Name,
				Description: in.Description,
				Price:       in.Price,
				CategoryID:  categoryID,
				IsActive:    true,
				Image:       in.Image,
			}
			if err := r.Products.Create(ctx, p); err != nil {
				return err
			}
			res.Created++
		}
		res.Categories = len(categories)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Invalidate(ctx, touched...)
	return res, nil
}
