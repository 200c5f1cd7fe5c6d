package mysql

import (
	"context"
	"errors"
	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type wishlistRepo struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) repository.WishlistRepository {
	return &wishlistRepo{db: db}
}

func (r *wishlistRepo) Find(ctx context.Context, userID, productID uint64) (*domain.WishlistItem, error) {
	var item domain.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *wishlistRepo) Create(ctx context.Context, item *domain.WishlistItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

func (r *wishlistRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.WishlistItem{}, id).Error
}

func (r *wishlistRepo) ListByUser(ctx context.Context, userID uint64) ([]domain.WishlistItem, error) {
	var out []domain.WishlistItem
	if err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *wishlistRepo) DeleteByUser(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.WishlistItem{}).Error
}

func (r *wishlistRepo) DeleteByProduct(ctx context.Context, productID uint64) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&domain.WishlistItem{}).Error
}
