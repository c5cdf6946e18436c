// Package config reads the backend configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration of the backend.
type Config struct {
	// APIURL is the URL of the API, used to generate resource links.
	APIURL string `env:"API_URL" envDefault:"http://localhost:8080/v1"`

	// DBPath is the path of the sqlite database file.
	DBPath string `env:"DB_PATH" envDefault:"data/gorm.db"`

	// GinMode switches gin between debug and release behavior.
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	// LogFormat is "json" or "human".
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// CORSAllowOrigins is a space separated list of allowed CORS origins.
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:" "`

	// EnablePprof mounts the pprof endpoints under /debug/pprof.
	EnablePprof bool `env:"ENABLE_PPROF" envDefault:"false"`

	// AMQPURL enables budget-change notifications when set.
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"careplan"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"budget-changes"`
}

// Load reads the configuration from a .env file, if present, and the
// environment. Environment variables take precedence over the file.
func Load() (Config, error) {
	// A missing .env file is fine, the environment alone can be complete
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}
