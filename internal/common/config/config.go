package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"*"`
	}

	Postgres PostgresConfig

	Redis struct {
		Enabled  bool          `env:"REDIS_ENABLED" envDefault:"true"`
		Host     string        `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int           `env:"REDIS_PORT" envDefault:"6379"`
		Password string        `env:"REDIS_PASSWORD" envDefault:""`
		DB       int           `env:"REDIS_DB" envDefault:"0"`
		UserTTL  time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`
	}

	Telegram struct {
		BotToken       string        `env:"BOT_TOKEN,required,notEmpty"`
		InitDataMaxAge time.Duration `env:"INIT_DATA_MAX_AGE" envDefault:"24h"`
	}

	JWT struct {
		Secret         string        `env:"JWT_SECRET,required,notEmpty"`
		Algorithm      string        `env:"JWT_ALGORITHM" envDefault:"HS256"`
		AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" envDefault:"1h"`
	}
}

type PostgresConfig struct {
	Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User            string        `env:"POSTGRES_USER" envDefault:"postgres"`
	Password        string        `env:"POSTGRES_PASSWORD" envDefault:""`
	DBName          string        `env:"POSTGRES_DB" envDefault:"wishlist"`
	SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"1h"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"false"`
}

// GetDSN builds a lib/pq connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// RedisAddr returns host:port of the redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// .env is optional, production sets variables directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM %q", c.JWT.Algorithm)
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TOKEN_TTL must be positive")
	}
	if c.Telegram.InitDataMaxAge <= 0 {
		return fmt.Errorf("INIT_DATA_MAX_AGE must be positive")
	}
	return nil
}
