package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"storefront-service/internal/config"
	"storefront-service/internal/domain"
	"storefront-service/internal/infra/cache"
	mmysql "storefront-service/internal/infra/mysql"
	"storefront-service/internal/logger"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/services"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type catalogFile struct {
	Products []domain.ProductSeed `json:"products"`
}

func main() {
	file := flag.String("file", "products.json", "JSON file with a top-level \"products\" array")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal("read catalog", zap.String("file", *file), zap.Error(err))
	}
	var data catalogFile
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Fatal("parse catalog", zap.String("file", *file), zap.Error(err))
	}

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		log.Fatal("db: connect", zap.Error(err))
	}

	// Imported prices must not be shadowed by stale cache entries.
	var catalog *services.CatalogService
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DialTimeout: 2 * time.Second})
		defer rdb.Close()
		catalog = services.NewCatalogService(mysqlrepo.NewStore(db), cache.NewProductCache(rdb, cfg.Redis.CacheTTL))
	} else {
		catalog = services.NewCatalogService(mysqlrepo.NewStore(db), nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := catalog.Import(ctx, data.Products)
	if err != nil {
		log.Fatal("import failed", zap.Error(err))
	}
	log.Info("import finished",
		zap.Int("categories", res.Categories),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated))
}
