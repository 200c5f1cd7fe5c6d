package services

import (
	"context"
	"storefront-service/internal/domain"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/mocks"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddIncrements(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	p := store.SeedProduct("Truffle", "3.20", "Chocolate")
	svc := NewCartService(store)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Add(ctx, shopper.UserID, p))
	}

	lines, err := svc.List(ctx, shopper.UserID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	require.NotNil(t, lines[0].Product)
	assert.Equal(t, "Truffle", lines[0].Product.Name)
	assert.Equal(t, "Chocolate", lines[0].Product.CategoryName())
}

func TestCartService_ConcurrentAddsAreNotLost(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	p := store.SeedProduct("Truffle", "3.20", "")
	svc := NewCartService(store)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Add(ctx, shopper.UserID, p))
		}()
	}
	wg.Wait()

	lines, err := svc.List(ctx, shopper.UserID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, n, lines[0].Quantity)
}

func TestCartService_Add(t *testing.T) {
	tests := []struct {
		name        string
		userID      uint64
		product     func(store *mocks.MemoryStore) uint64
		expectedErr error
	}{
		{
			name:    "known product",
			userID:  shopper.UserID,
			product: func(s *mocks.MemoryStore) uint64 { return s.SeedProduct("A", "1.00", "") },
		},
		{
			name:        "unknown product",
			userID:      shopper.UserID,
			product:     func(*mocks.MemoryStore) uint64 { return 404 },
			expectedErr: domain.ErrProductNotFound,
		},
		{
			name:        "unknown user",
			userID:      77,
			product:     func(s *mocks.MemoryStore) uint64 { return s.SeedProduct("A", "1.00", "") },
			expectedErr: domain.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			err := NewCartService(store).Add(context.Background(), tt.userID, tt.product(store))
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.ErrorIs(t, err, domain.ErrNotFound)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCartService_AddAcceptsInactiveProduct(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	p := store.SeedProduct("Retired", "1.00", "")
	inactive := false
	_, err := NewAdminService(store, NewCatalogService(store, nil), rabbit.NopPublisher{}).
		UpdateProduct(ctx, admin, p, domain.ProductPatch{IsActive: &inactive})
	require.NoError(t, err)

	svc := NewCartService(store)
	require.NoError(t, svc.Add(ctx, shopper.UserID, p))

	lines, err := svc.List(ctx, shopper.UserID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCartService_Update(t *testing.T) {
	tests := []struct {
		name        string
		inCart      bool
		qty         int
		expectedErr error
		expectedQty int
	}{
		{name: "sets quantity", inCart: true, qty: 7, expectedQty: 7},
		{name: "one is allowed", inCart: true, qty: 1, expectedQty: 1},
		{name: "zero rejected", inCart: true, qty: 0, expectedErr: domain.ErrValidation, expectedQty: 1},
		{name: "negative rejected", inCart: true, qty: -3, expectedErr: domain.ErrValidation, expectedQty: 1},
		{name: "line missing", inCart: false, qty: 2, expectedErr: domain.ErrCartItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore()
			p := store.SeedProduct("A", "1.00", "")
			svc := NewCartService(store)
			if tt.inCart {
				require.NoError(t, svc.Add(ctx, shopper.UserID, p))
			}

			err := svc.Update(ctx, shopper.UserID, p, tt.qty)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}

			lines, err := svc.List(ctx, shopper.UserID)
			require.NoError(t, err)
			if !tt.inCart {
				assert.Empty(t, lines)
				return
			}
			require.Len(t, lines, 1)
			assert.Equal(t, tt.expectedQty, lines[0].Quantity)
		})
	}
}

func TestCartService_Remove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	a := store.SeedProduct("A", "1.00", "")
	b := store.SeedProduct("B", "2.00", "")
	svc := NewCartService(store)
	require.NoError(t, svc.Add(ctx, shopper.UserID, a))
	require.NoError(t, svc.Add(ctx, shopper.UserID, b))

	require.NoError(t, svc.Remove(ctx, shopper.UserID, a))
	// absent line is a no-op
	require.NoError(t, svc.Remove(ctx, shopper.UserID, a))

	lines, err := svc.List(ctx, shopper.UserID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, b, lines[0].ProductID)
}

func TestCartService_CartsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	p := store.SeedProduct("A", "1.00", "")
	svc := NewCartService(store)
	require.NoError(t, svc.Add(ctx, shopper.UserID, p))
	require.NoError(t, svc.Add(ctx, admin.UserID, p))
	require.NoError(t, svc.Add(ctx, admin.UserID, p))

	mine, err := svc.List(ctx, shopper.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 1, mine[0].Quantity)

	theirs, err := svc.List(ctx, admin.UserID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, 2, theirs[0].Quantity)
}
