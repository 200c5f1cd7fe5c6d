package services

import (
	"context"
	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
)

type WishlistService struct {
	store repository.Store
}

func NewWishlistService(s repository.Store) *WishlistService {
	return &WishlistService{store: s}
}

// Toggle adds the product to the wishlist if absent and removes it otherwise.
// The exclusive user lock makes the lookup and the write one step.
func (s *WishlistService) Toggle(ctx context.Context, userID, productID uint64) (domain.ToggleResult, error) {
	var result domain.ToggleResult
	err := s.store.Transaction(ctx, func(r repository.Repositories) error {
		if err := lockUser(ctx, r, userID, repository.LockExclusive); err != nil {
			return err
		}

		p, err := r.Products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}

		existing, err := r.Wishlists.Find(ctx, userID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := r.Wishlists.Delete(ctx, existing.ID); err != nil {
				return err
			}
			result = domain.ToggleRemoved
			return nil
		}

		if err := r.Wishlists.Create(ctx, &domain.WishlistItem{UserID: userID, ProductID: productID}); err != nil {
			return err
		}
		result = domain.ToggleAdded
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func (s *WishlistService) List(ctx context.Context, userID uint64) ([]domain.WishlistItem, error) {
	return s.store.Repos().Wishlists.ListByUser(ctx, userID)
}
