package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Profile cache (optional; empty disables caching)
	RedisURL        string        `envconfig:"REDIS_URL"`
	ProfileCacheTTL time.Duration `envconfig:"PROFILE_CACHE_TTL" default:"5m"`

	// Embedding extractor
	ExtractorType string `envconfig:"EXTRACTOR_TYPE" default:"deepface"`
	DeepFaceURL   string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`

	// Verification
	MatchThreshold float64       `envconfig:"MATCH_THRESHOLD" default:"52"`
	PhotoBaseDir   string        `envconfig:"PHOTO_BASE_DIR" default:"."`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	// ExtractConcurrency bounds concurrent embedding extractions;
	// 0 means one per CPU core.
	ExtractConcurrency int `envconfig:"EXTRACT_CONCURRENCY" default:"0"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ExtractWorkers resolves the configured extraction concurrency.
func (c *Config) ExtractWorkers() int {
	if c.ExtractConcurrency > 0 {
		return c.ExtractConcurrency
	}
	return runtime.NumCPU()
}
