package services

import (
	"context"
	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
)

// lockUser holds a row lock on the user for the rest of the transaction. Cart
// mutations take it shared, checkout and wishlist toggles take it exclusive.
func lockUser(ctx context.Context, r repository.Repositories, userID uint64, mode repository.LockMode) error {
	ok, err := r.Users.Lock(ctx, userID, mode)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	return nil
}

func requireAdmin(actor domain.Identity) error {
	if actor.UserID == 0 {
		return domain.ErrUnauthorized
	}
	if !actor.IsAdmin {
		return domain.ErrForbidden
	}
	return nil
}
