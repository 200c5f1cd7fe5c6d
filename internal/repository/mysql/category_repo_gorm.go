package mysql

import (
	"context"
	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepo{db: db}
}

// GetOrCreate relies on the unique index on name: the insert is a no-op when
// another writer got there first, and the locking read sees the committed row
// even inside an older snapshot.
func (r *categoryRepo) GetOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	db := r.db.WithContext(ctx)

	c := domain.Category{Name: name}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&c).Error; err != nil {
		return nil, err
	}

	var out domain.Category
	if err := db.Clauses(clause.Locking{Strength: "SHARE"}).
		Where("name = ?", name).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
