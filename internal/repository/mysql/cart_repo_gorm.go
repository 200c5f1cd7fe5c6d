package mysql

import (
	"context"
	"errors"
	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

// Increment is a single INSERT ... ON DUPLICATE KEY UPDATE on the (user, product)
// unique index, so concurrent adds never lose a unit.
func (r *cartRepo) Increment(ctx context.Context, userID, productID uint64) error {
	item := domain.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
	return r.db.WithContext(ctx).
		Omit("Product").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr("quantity + ?", 1)}),
		}).
		Create(&item).Error
}

func (r *cartRepo) SetQuantity(ctx context.Context, userID, productID uint64, qty int) (bool, error) {
	db := r.db.WithContext(ctx)

	var item domain.CartItem
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := db.Model(&item).Update("quantity", qty).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *cartRepo) Delete(ctx context.Context, userID, productID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.CartItem{}).Error
}

func (r *cartRepo) ListByUser(ctx context.Context, userID uint64) ([]domain.CartItem, error) {
	var out []domain.CartItem
	if err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cartRepo) ListForUpdate(ctx context.Context, userID uint64) ([]domain.CartItem, error) {
	var out []domain.CartItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cartRepo) DeleteLines(ctx context.Context, userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&domain.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *cartRepo) DeleteByUser(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error
}

func (r *cartRepo) DeleteByProduct(ctx context.Context, productID uint64) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&domain.CartItem{}).Error
}
