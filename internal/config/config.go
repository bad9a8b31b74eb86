package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration, loaded from config.yaml with
// environment-variable overrides (e.g. POSTGRES_URL, AUTH_JWT_SECRET).
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis"`
	Queue    QueueConfig    `mapstructure:"queue" yaml:"queue"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	Environment     string        `mapstructure:"environment" yaml:"environment"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type PostgresConfig struct {
	URL             string        `mapstructure:"url" yaml:"url"`
	MaxConns        int32         `mapstructure:"max_conns" yaml:"max_conns"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time" yaml:"max_conn_idle_time"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime" yaml:"max_conn_lifetime"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" yaml:"url"`
	UserCacheTTL time.Duration `mapstructure:"user_cache_ttl" yaml:"user_cache_ttl"`
}

type QueueConfig struct {
	Concurrency int            `mapstructure:"concurrency" yaml:"concurrency"`
	Queues      map[string]int `mapstructure:"queues" yaml:"queues"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
}

// Load reads configuration from the given directory (or the working directory
// when empty). Missing config files are tolerated so the service can run on
// environment variables alone.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("postgres.max_conns", 4)
	v.SetDefault("postgres.max_conn_idle_time", 5*time.Minute)
	v.SetDefault("postgres.max_conn_lifetime", time.Hour)
	v.SetDefault("redis.user_cache_ttl", 5*time.Minute)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.queues", map[string]int{"default": 1, "chat": 2})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.Postgres.URL == "" {
		cfg.Postgres.URL = v.GetString("postgres_url")
	}
	if cfg.Redis.URL == "" {
		cfg.Redis.URL = v.GetString("redis_url")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("jwt_secret")
	}

	if cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("config: postgres url is required (postgres.url or POSTGRES_URL)")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("config: jwt secret is required (auth.jwt_secret or JWT_SECRET)")
	}
	return &cfg, nil
}
