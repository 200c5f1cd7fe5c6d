package main

import (
	"context"
	"flag"
	"os"
	"storefront-service/internal/auth"
	"storefront-service/internal/config"
	mmysql "storefront-service/internal/infra/mysql"
	"storefront-service/internal/logger"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/services"
	"time"

	"go.uber.org/zap"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (defaults to $ADMIN_PASSWORD)")
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

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		log.Fatal("db: connect", zap.Error(err))
	}

	// No tokens are issued here, so the issuer only needs to exist.
	users := services.NewUserService(mysqlrepo.NewStore(db), auth.NewIssuer(cfg.JWT))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	u, created, err := users.EnsureAdmin(ctx, *username, *email, *password)
	if err != nil {
		log.Fatal("create admin", zap.Error(err))
	}
	if created {
		log.Info("admin created", zap.Uint64("userId", u.ID), zap.String("email", u.Email))
	} else {
		log.Info("existing user promoted to admin", zap.Uint64("userId", u.ID), zap.String("email", u.Email))
	}
}
