package config

import (
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	SourcesFile     string        `env:"SOURCES_FILE" envDefault:"sources.yaml"`
	MappingsFile    string        `env:"MAPPINGS_FILE"`
	CacheDir        string        `env:"CACHE_DIR" envDefault:"/var/cache/catalog-bridge"`
	CacheMaxAge     time.Duration `env:"CACHE_MAX_AGE" envDefault:"24h"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	PrefetchTimeout time.Duration `env:"PREFETCH_TIMEOUT" envDefault:"5m"`
	RedisURL        string        `env:"REDIS_URL"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`

	Import   Import
	RabbitMQ RabbitMQ
}

// Import holds options applied to every import run.
type Import struct {
	UpdateExisting   bool `env:"UPDATE_EXISTING" envDefault:"true"`
	ImportCategories bool `env:"IMPORT_CATEGORIES" envDefault:"true"`
	ImportImages     bool `env:"IMPORT_IMAGES" envDefault:"true"`
	Limit            int  `env:"IMPORT_LIMIT" envDefault:"0"`
}

// RabbitMQ holds RabbitMQ configuration.
type RabbitMQ struct {
	URL               string `env:"RABBITMQ_URL"`
	Exchange          string `env:"RABBITMQ_EXCHANGE" envDefault:"cb-ex"`
	Queue             string `env:"RABBITMQ_QUEUE" envDefault:"catalog-bridge.commands"`
	CommandRoutingKey string `env:"RABBITMQ_COMMAND_ROUTING_KEY" envDefault:"cb.cmd.import"`
}

// ImportOptions returns options of import runs.
func (c Config) ImportOptions() models.ImportOptions {
	return models.ImportOptions{
		UpdateExisting:   c.Import.UpdateExisting,
		ImportCategories: c.Import.ImportCategories,
		ImportImages:     c.Import.ImportImages,
		ImportLimit:      c.Import.Limit,
		MaxAge:           c.CacheMaxAge,
	}
}
