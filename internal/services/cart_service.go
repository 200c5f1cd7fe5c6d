package services

import (
	"context"
	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
)

type CartService struct {
	store repository.Store
}

func NewCartService(s repository.Store) *CartService {
	return &CartService{store: s}
}

// Add puts one unit of the product in the cart. Inactive products are accepted.
func (s *CartService) Add(ctx context.Context, userID, productID uint64) error {
	return s.store.Transaction(ctx, func(r repository.Repositories) error {
		if err := lockUser(ctx, r, userID, repository.LockShared); err != nil {
			return err
		}

		p, err := r.Products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}

		return r.Carts.Increment(ctx, userID, productID)
	})
}

func (s *CartService) Update(ctx context.Context, userID, productID uint64, qty int) error {
	if qty < 1 {
		return domain.Invalid("quantity must be at least 1")
	}

	return s.store.Transaction(ctx, func(r repository.Repositories) error {
		if err := lockUser(ctx, r, userID, repository.LockShared); err != nil {
			return err
		}

		found, err := r.Carts.SetQuantity(ctx, userID, productID, qty)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCartItemNotFound
		}
		return nil
	})
}

// Remove is a no-op when the product is not in the cart.
func (s *CartService) Remove(ctx context.Context, userID, productID uint64) error {
	return s.store.Transaction(ctx, func(r repository.Repositories) error {
		if err := lockUser(ctx, r, userID, repository.LockShared); err != nil {
			return err
		}
		return r.Carts.Delete(ctx, userID, productID)
	})
}

func (s *CartService) List(ctx context.Context, userID uint64) ([]domain.CartItem, error) {
	return s.store.Repos().Carts.ListByUser(ctx, userID)
}
