// config/config.go
package config

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/raywall/todo-quick-service/envloader"
)

// Config reúne a configuração de runtime do serviço, carregada do
// ambiente. Tabela, índices e bucket são provisionados externamente.
type Config struct {
	TodosTable       string        `env:"TODOS_TABLE" validate:"required"`
	SearchIndex      string        `env:"INDEX_NAME" envDefault:"search-index"`
	CreatedAtIndex   string        `env:"CREATED_AT_INDEX" envDefault:"createdAt-index"`
	AttachmentBucket string        `env:"ATTACHMENT_S3_BUCKET" validate:"required"`
	SignedURLTTL     time.Duration `env:"SIGNED_URL_EXPIRATION" envDefault:"5m"`
	Port             int           `env:"PORT" envDefault:"8080" validate:"gt=0,lt=65536"`
	MetricsAddr      string        `env:"METRICS_ADDR"`
	Logging          Logging
}

// Logging configura o logger global.
type Logging struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

// Load carrega e valida a configuração a partir do ambiente.
func Load() (Config, error) {
	var cfg Config
	if err := envloader.Load(&cfg); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
