// Env loader
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBHost     string `env:"BLUEPRINT_DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"BLUEPRINT_DB_PORT" envDefault:"5432"`
	DBName     string `env:"BLUEPRINT_DB_DATABASE" envDefault:"quran_reader"`
	DBUser     string `env:"BLUEPRINT_DB_USERNAME" envDefault:"postgres"`
	DBPassword string `env:"BLUEPRINT_DB_PASSWORD"`
	DBSchema   string `env:"BLUEPRINT_DB_SCHEMA" envDefault:"public"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// StateBackend selects where reading state lives: memory, postgres, redis or file.
	StateBackend string `env:"STATE_BACKEND" envDefault:"memory"`
	StateFile    string `env:"STATE_FILE"`

	QuranAPIBase         string        `env:"QURAN_API_BASE" envDefault:"https://api.alquran.cloud/v1"`
	QuranAPITimeout      time.Duration `env:"QURAN_API_TIMEOUT" envDefault:"10s"`
	QuranCacheTTL        time.Duration `env:"QURAN_CACHE_TTL" envDefault:"10m"`
	DefaultTranslation   string        `env:"DEFAULT_TRANSLATION" envDefault:"en.sahih"`
	TranslationLanguages []string      `env:"TRANSLATION_LANGUAGES" envSeparator:"," envDefault:"en,ur,id"`
	IndexRefreshInterval time.Duration `env:"INDEX_REFRESH_INTERVAL"`
}

// LoadConfig loads the .env file for the current APP_ENV and parses the environment.
func LoadConfig() (*Config, error) {
	appEnv := GetAppEnv()

	switch appEnv {
	case "production":
		if err := godotenv.Load(".env.production"); err == nil {
			fmt.Println("Loaded .env.production")
		}
	default:
		if err := godotenv.Load(".env.development"); err == nil {
			fmt.Println("Loaded .env.development")
		}
	}

	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.StateBackend = strings.ToLower(strings.TrimSpace(cfg.StateBackend))
	switch cfg.StateBackend {
	case "memory", "postgres", "redis", "file":
	default:
		return nil, fmt.Errorf("invalid STATE_BACKEND: %q", cfg.StateBackend)
	}

	if cfg.IndexRefreshInterval <= 0 {
		cfg.IndexRefreshInterval = time.Hour
		if cfg.AppEnv == "production" {
			cfg.IndexRefreshInterval = 24 * time.Hour
		}
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func GetAppEnv() string {
	if value, exists := os.LookupEnv("APP_ENV"); exists {
		return value
	}
	return "development"
}
