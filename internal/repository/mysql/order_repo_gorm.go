package mysql

import (
	"context"
	"errors"
	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// Save inserts the order row first so its ID can be stamped on the items. Callers
// run it inside a transaction.
func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	db := r.db.WithContext(ctx)

	items := order.Items
	if err := db.Omit("Items").Create(order).Error; err != nil {
		zap.L().Error("order insert failed", zap.Error(err))
		return err
	}
	if order.ID == 0 {
		zap.L().Warn("order saved but ID is still 0", zap.Uint64("userId", order.UserID))
		return errors.New("failed to assign order ID")
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := db.Omit("Product").Create(&items).Error; err != nil {
			zap.L().Error("order items insert failed", zap.Uint64("orderId", order.ID), zap.Error(err))
			return err
		}
	}
	order.Items = items

	zap.L().Debug("order saved", zap.Uint64("orderId", order.ID), zap.Int("items", len(items)))
	return nil
}

func (r *orderRepo) withItems() *gorm.DB {
	return r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product")
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.withItems().WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		zap.L().Error("order lookup failed", zap.Uint64("orderId", id), zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.withItems().WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.withItems().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateFields(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).
		Model(order).
		Select("status", "payment_method").
		Updates(order).Error
}

func (r *orderRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
		return false, err
	}
	res := db.Delete(&domain.Order{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepo) DeleteByUser(ctx context.Context, userID uint64) error {
	db := r.db.WithContext(ctx)
	ids := db.Model(&domain.Order{}).Select("id").Where("user_id = ?", userID)
	if err := db.Where("order_id IN (?)", ids).Delete(&domain.OrderItem{}).Error; err != nil {
		return err
	}
	return db.Where("user_id = ?", userID).Delete(&domain.Order{}).Error
}

func (r *orderRepo) DetachProduct(ctx context.Context, productID uint64) error {
	return r.db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Where("product_id = ?", productID).
		Update("product_id", nil).Error
}

func (r *orderRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Count(&n).Error
	return n, err
}

func (r *orderRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	row := r.db.WithContext(ctx).Model(&domain.Order{}).Select("COALESCE(SUM(total), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *orderRepo) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	var rows []struct {
		Status domain.OrderStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[domain.OrderStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}
