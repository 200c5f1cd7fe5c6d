package services

import (
	"context"
	"errors"
	"storefront-service/internal/domain"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/mocks"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_ListActive(t *testing.T) {
	dbProducts := []domain.Product{{ID: 1, Name: "Dark", Price: decimal.RequireFromString("3.00"), IsActive: true}}

	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockProductCache, *mocks.MockProductRepository)
		expectedNames []string
		expectedError string
	}{
		{
			name: "cache hit skips the database",
			setupMocks: func(cache *mocks.MockProductCache, repo *mocks.MockProductRepository) {
				cache.On("GetActive", mock.Anything).Return([]domain.Product{{ID: 9, Name: "Cached"}}, true, nil)
			},
			expectedNames: []string{"Cached"},
		},
		{
			name: "cache miss fills the cache",
			setupMocks: func(cache *mocks.MockProductCache, repo *mocks.MockProductRepository) {
				cache.On("GetActive", mock.Anything).Return(nil, false, nil)
				repo.On("ListActive", mock.Anything).Return(dbProducts, nil)
				cache.On("SetActive", mock.Anything, dbProducts).Return(nil)
			},
			expectedNames: []string{"Dark"},
		},
		{
			name: "cache faults fall back to the database",
			setupMocks: func(cache *mocks.MockProductCache, repo *mocks.MockProductRepository) {
				cache.On("GetActive", mock.Anything).Return(nil, false, errors.New("redis down"))
				repo.On("ListActive", mock.Anything).Return(dbProducts, nil)
				cache.On("SetActive", mock.Anything, dbProducts).Return(errors.New("redis down"))
			},
			expectedNames: []string{"Dark"},
		},
		{
			name: "database error",
			setupMocks: func(cache *mocks.MockProductCache, repo *mocks.MockProductRepository) {
				cache.On("GetActive", mock.Anything).Return(nil, false, nil)
				repo.On("ListActive", mock.Anything).Return(nil, errors.New("database error"))
			},
			expectedError: "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := new(mocks.MockProductCache)
			repo := new(mocks.MockProductRepository)
			tt.setupMocks(cache, repo)

			store := &mocks.MockStore{}
			store.Repositories.Products = repo
			svc := NewCatalogService(store, cache)

			products, err := svc.ListActive(context.Background())
			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
				assert.Nil(t, products)
			} else {
				require.NoError(t, err)
				var names []string
				for _, p := range products {
					names = append(names, p.Name)
				}
				assert.Equal(t, tt.expectedNames, names)
			}

			cache.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Get(t *testing.T) {
	active := &domain.Product{ID: 1, Name: "Dark", IsActive: true}
	inactive := &domain.Product{ID: 2, Name: "Old", IsActive: false}

	tests := []struct {
		name        string
		id          uint64
		setupMocks  func(*mocks.MockProductCache, *mocks.MockProductRepository)
		expectedErr error
	}{
		{
			name: "cache hit",
			id:   1,
			setupMocks: func(cache *mocks.MockProductCache, repo *mocks.MockProductRepository) {
				cache.On("GetProduct", mock.Anything, uint64(1)).Return(active, true, nil)
			},
		},
		{
			name: "cache miss",
			id:   1,
			setupMocks: func(cache *mocks.MockProductCache, repo *mocks.MockProductRepository) {
				cache.On("GetProduct", mock.Anything, uint64(1)).Return(nil, false, nil)
				repo.On("FindByID", mock.Anything, uint64(1)).Return(active, nil)
				cache.On("SetProduct", mock.Anything, active).Return(nil)
			},
		},
		{
			name: "inactive product is hidden",
			id:   2,
			setupMocks: func(cache *mocks.MockProductCache, repo *mocks.MockProductRepository) {
				cache.On("GetProduct", mock.Anything, uint64(2)).Return(nil, false, nil)
				repo.On("FindByID", mock.Anything, uint64(2)).Return(inactive, nil)
			},
			expectedErr: domain.ErrProductNotFound,
		},
		{
			name: "unknown product",
			id:   3,
			setupMocks: func(cache *mocks.MockProductCache, repo *mocks.MockProductRepository) {
				cache.On("GetProduct", mock.Anything, uint64(3)).Return(nil, false, nil)
				repo.On("FindByID", mock.Anything, uint64(3)).Return(nil, nil)
			},
			expectedErr: domain.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := new(mocks.MockProductCache)
			repo := new(mocks.MockProductRepository)
			tt.setupMocks(cache, repo)

			store := &mocks.MockStore{}
			store.Repositories.Products = repo
			p, err := NewCatalogService(store, cache).Get(context.Background(), tt.id)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Dark", p.Name)
			}

			cache.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_ListActiveWithoutCache(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	store.SeedProduct("Dark", "3.00", "Bars")
	hidden := store.SeedProduct("Old", "1.00", "Bars")
	inactive := false
	_, err := NewAdminService(store, NewCatalogService(store, nil), rabbit.NopPublisher{}).
		UpdateProduct(ctx, admin, hidden, domain.ProductPatch{IsActive: &inactive})
	require.NoError(t, err)

	products, err := NewCatalogService(store, nil).ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Dark", products[0].Name)
	assert.Equal(t, "Bars", products[0].CategoryName())
}

func TestCatalogService_Import(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	existing := store.SeedProduct("Dark", "3.00", "")
	cache := new(mocks.MockProductCache)
	cache.On("Invalidate", mock.Anything, []uint64{existing}).Return(nil).Once()
	svc := NewCatalogService(store, cache)

	seeds := []domain.ProductSeed{
		{Name: "Dark", Description: "70%", Price: decimal.RequireFromString("3.50"), Category: "Bars"},
		{Name: "Milk", Price: decimal.RequireFromString("2.75"), Category: "Bars"},
		{Name: "Box", Price: decimal.RequireFromString("12.00"), Category: "Gifts", Image: "box.png"},
	}
	res, err := svc.Import(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Categories: 2, Created: 2, Updated: 1}, res)

	dark, err := store.Repos().Products.FindByID(ctx, existing)
	require.NoError(t, err)
	assert.Equal(t, "70%", dark.Description)
	assert.Equal(t, "3.50", dark.Price.StringFixed(2))
	assert.Equal(t, "Bars", dark.CategoryName())

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	cache.AssertExpectations(t)
}

func TestCatalogService_ImportIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	svc := NewCatalogService(store, nil)

	seeds := []domain.ProductSeed{
		{Name: "Milk", Price: decimal.RequireFromString("2.75"), Category: "Bars"},
		{Name: "", Price: decimal.RequireFromString("1.00")},
	}
	_, err := svc.Import(ctx, seeds)
	assert.ErrorIs(t, err, domain.ErrValidation)

	n, err := store.Repos().Products.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCatalogService_ListActiveIgnoresCallerCancellation(t *testing.T) {
	dbProducts := []domain.Product{{ID: 1, Name: "Dark", IsActive: true}}
	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })

	repo := new(mocks.MockProductRepository)
	repo.On("ListActive", live).Return(dbProducts, nil).Once()
	repo.On("FindByID", live, uint64(1)).Return(&dbProducts[0], nil).Once()
	store := &mocks.MockStore{}
	store.Repositories.Products = repo
	svc := NewCatalogService(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	products, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	p, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dark", p.Name)
	repo.AssertExpectations(t)
}
