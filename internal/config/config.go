package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	Port        int    `env:"PORT" envDefault:"8082"`
	GatewayPort int    `env:"GATEWAY_PORT" envDefault:"8080"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"storefront-service"`
	ServiceID   string `env:"SERVICE_ID" envDefault:"storefront-service-1"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"storefront"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"storefront123"`
	DBName     string `env:"DB_NAME" envDefault:"storefront"`

	RedisHost string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int           `env:"REDIS_PORT" envDefault:"6379"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	RabbitHost     string `env:"RABBITMQ_HOST" envDefault:"localhost"`
	RabbitPort     int    `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitUser     string `env:"RABBITMQ_USER" envDefault:"guest"`
	RabbitPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`

	ConsulHost string `env:"CONSUL_HOST" envDefault:"localhost"`
	ConsulPort int    `env:"CONSUL_PORT" envDefault:"8500"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"storefront-dev-secret-change-me"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"1h"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
