package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"storefront-service/internal/domain"
	"time"

	"github.com/go-redis/redis/v8"
)

const activeProductsKey = "products:active"

func productKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func (c *ProductCache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// A payload we cannot read is as good as a miss; drop it.
		c.rdb.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

func (c *ProductCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

func (c *ProductCache) GetActive(ctx context.Context) ([]domain.Product, bool, error) {
	var out []domain.Product
	ok, err := c.get(ctx, activeProductsKey, &out)
	if !ok || err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *ProductCache) SetActive(ctx context.Context, products []domain.Product) error {
	return c.set(ctx, activeProductsKey, products)
}

func (c *ProductCache) GetProduct(ctx context.Context, id uint64) (*domain.Product, bool, error) {
	var p domain.Product
	ok, err := c.get(ctx, productKey(id), &p)
	if !ok || err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (c *ProductCache) SetProduct(ctx context.Context, p *domain.Product) error {
	return c.set(ctx, productKey(p.ID), p)
}

// Invalidate drops the active listing and the given product entries.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...uint64) error {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, activeProductsKey)
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
