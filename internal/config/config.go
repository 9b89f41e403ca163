package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds minimal runtime configuration. Every default matches the
// behavior of an unconfigured run: localhost, port 8000, gte-large.
type Config struct {
	// Server
	Host     string `env:"HOST" envDefault:"127.0.0.1"`
	Port     int    `env:"PORT" envDefault:"8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Embeddings
	EmbedProvider string `env:"EMBED_PROVIDER" envDefault:"fastembed"` // "fastembed" (local ONNX), "ollama" or "openai"
	EmbedModel    string `env:"EMBED_MODEL" envDefault:"thenlper/gte-large"`
	ModelCacheDir string `env:"MODEL_CACHE_DIR"` // fastembed model download cache; defaults inside the provider
	OpenAIKey     string `env:"OPENAI_API_KEY"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
