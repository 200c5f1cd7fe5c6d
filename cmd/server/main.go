package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os/signal"
	"storefront-service/internal/auth"
	"storefront-service/internal/config"
	"storefront-service/internal/controllers/http"
	"storefront-service/internal/infra"
	"storefront-service/internal/infra/cache"
	mmysql "storefront-service/internal/infra/mysql"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/logger"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/services"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		log.Fatal("db: connect", zap.Error(err))
	}
	store := mysqlrepo.NewStore(db)

	var productCache infra.ProductCacheInterface
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			DB:           0,
			PoolSize:     200,
			MinIdleConns: 20,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer redisClient.Close()
		productCache = cache.NewProductCache(redisClient, cfg.Redis.CacheTTL)
	} else {
		log.Warn("REDIS_HOST not set, product cache disabled")
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("failed to init publisher", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	} else {
		log.Warn("RABBITMQ_URL not set, order events disabled")
	}

	issuer := auth.NewIssuer(cfg.JWT)
	catalog := services.NewCatalogService(store, productCache)
	handler := http.NewHandler(http.Services{
		Users:    services.NewUserService(store, issuer),
		Catalog:  catalog,
		Carts:    services.NewCartService(store),
		Wishlist: services.NewWishlistService(store),
		Orders:   services.NewOrderService(store, publisher),
		Admin:    services.NewAdminService(store, catalog, publisher),
	}, issuer)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), http.RequestLogger())

	handler.RegisterRoutes(r)

	srv := &nethttp.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("starting storefront service", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatal("server run", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
