package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries the service environment. Every field has a local-development
// default so the binary runs with an empty environment.
type Config struct {
	Port         int           `env:"PORT" envDefault:"8080"`
	DBPath       string        `env:"PAGE_DB_PATH" envDefault:"./pages.db"`
	RedisURL     string        `env:"REDIS_URL"`
	RabbitMQURL  string        `env:"RABBITMQ_URL"`
	KafkaBrokers string        `env:"KAFKA_BROKERS"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	SiteName     string        `env:"SITE_NAME" envDefault:""`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
