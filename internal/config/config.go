package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type MySQLConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
}

func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

type RedisConfig struct {
	Addr     string
	CacheTTL time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Config struct {
	Port     string
	LogLevel string
	MySQL    MySQLConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	JWT      JWTConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MYSQL_USER", "root")
	v.SetDefault("MYSQL_PASSWORD", "")
	v.SetDefault("MYSQL_HOST", "127.0.0.1")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("MYSQL_DATABASE", "storefront")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("CACHE_TTL", "1m")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "order.exchange")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ACCESS_TTL", "1h")
	v.SetDefault("JWT_REFRESH_TTL", "168h")
}

// Load reads configuration from the environment, optionally layered over the
// file named by CONFIG_FILE.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	cfg := &Config{
		Port:     v.GetString("PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),
		MySQL: MySQLConfig{
			User:     v.GetString("MYSQL_USER"),
			Password: v.GetString("MYSQL_PASSWORD"),
			Host:     v.GetString("MYSQL_HOST"),
			Port:     v.GetString("MYSQL_PORT"),
			Database: v.GetString("MYSQL_DATABASE"),
		},
		Redis: RedisConfig{
			CacheTTL: v.GetDuration("CACHE_TTL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			AccessTTL:  v.GetDuration("JWT_ACCESS_TTL"),
			RefreshTTL: v.GetDuration("JWT_REFRESH_TTL"),
		},
	}
	if host := v.GetString("REDIS_HOST"); host != "" {
		cfg.Redis.Addr = host + ":6379"
	}
	return cfg, nil
}

// Validate checks the settings the API server cannot start without. The
// maintenance commands only need the database and skip it.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	return nil
}
