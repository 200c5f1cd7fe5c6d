package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "order.exchange", cfg.RabbitMQ.Exchange)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("MYSQL_USER", "shop")
	t.Setenv("MYSQL_PASSWORD", "pw")
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("MYSQL_DATABASE", "shopdb")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, "shop:pw@tcp(db:3307)/shopdb?charset=utf8mb4&parseTime=True&loc=Local", cfg.MySQL.DSN())
}

func TestConfig_ValidateRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.EqualError(t, cfg.Validate(), "config: JWT_SECRET is required")

	cfg.JWT.Secret = "s3cret"
	assert.NoError(t, cfg.Validate())
}
