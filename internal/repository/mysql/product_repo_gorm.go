package mysql

import (
	"context"
	"errors"
	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *productRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("name = ?", strings.TrimSpace(name)).
		Order("id").
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.WithContext(ctx).Preload("Category").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error
	return n, err
}
