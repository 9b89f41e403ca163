package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"embed-server/internal/config"
	"embed-server/internal/embeddings"
	"embed-server/internal/logger"
)

// Deps bundles runtime dependencies for the server.
//
// Embedder is nil when the model failed to load at startup. The server
// keeps running in that state: health reports loaded=false and embed
// requests fail with a model-unavailable error until a restart.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Embedder embeddings.Embedder
}

// Build loads env, config, and the embedding model. A model load failure
// is logged but does not fail Build; there is no reload path at runtime,
// so the operator's recovery is to fix the cause and restart.
func Build(ctx context.Context) Deps {
	// Optional; the server must run with zero configuration.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	embedder, err := buildEmbedder(ctx, cfg, log)
	if err != nil {
		log.Error("model load failed; embed requests will return errors until restart",
			"provider", cfg.EmbedProvider, "model", cfg.EmbedModel, "err", err)
		embedder = nil
	}

	return Deps{
		Config:   cfg,
		Log:      log,
		Embedder: embedder,
	}
}

func buildEmbedder(ctx context.Context, cfg config.Config, log *slog.Logger) (embeddings.Embedder, error) {
	switch cfg.EmbedProvider {
	case "fastembed":
		embedder, err := embeddings.NewFastEmbedEmbedder(embeddings.FastEmbedConfig{
			Model:    cfg.EmbedModel,
			CacheDir: cfg.ModelCacheDir,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local embedder: %w", err)
		}
		log.Info("using local fastembed model", "model", cfg.EmbedModel, "dimension", embedder.Dimension())
		return embedder, nil
	case "ollama":
		embedder, err := embeddings.NewOllamaEmbedder(ctx, cfg.EmbedModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ollama embedder: %w", err)
		}
		log.Info("using ollama model", "model", cfg.EmbedModel)
		return embedder, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when EMBED_PROVIDER=openai")
		}
		embedder, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIKey, openai.EmbeddingModel(cfg.EmbedModel))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI embedder: %w", err)
		}
		log.Info("using OpenAI embedder", "model", cfg.EmbedModel)
		return embedder, nil
	default:
		return nil, fmt.Errorf("invalid EMBED_PROVIDER: %s (valid options: fastembed, ollama, openai)", cfg.EmbedProvider)
	}
}
