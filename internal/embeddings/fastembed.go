package embeddings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	fastembed "github.com/anush008/fastembed-go"
)

// FastEmbedConfig holds configuration for the local ONNX provider.
type FastEmbedConfig struct {
	// Model is the embedding model name, e.g. "BAAI/bge-small-en-v1.5".
	Model string
	// CacheDir is where downloaded model files live.
	// Defaults to ~/.cache/embed-server/models.
	CacheDir string
	// MaxLength is the maximum input sequence length. Defaults to 512.
	MaxLength int
}

// FastEmbedEmbedder runs a sentence-embedding model locally via ONNX.
type FastEmbedEmbedder struct {
	model     *fastembed.FlagEmbedding
	modelName string
	dimension int
	mu        sync.Mutex
}

// fastembedModels maps hub-style model names to fastembed constants.
var fastembedModels = map[string]fastembed.EmbeddingModel{
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-small-en":                      fastembed.BGESmallEN,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"BAAI/bge-base-en":                       fastembed.BGEBaseEN,
	"BAAI/bge-small-zh-v1.5":                 fastembed.BGESmallZH,
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
}

// fastembedDimensions maps fastembed models to their output dimensionality.
var fastembedDimensions = map[fastembed.EmbeddingModel]int{
	fastembed.BGESmallENV15: 384,
	fastembed.BGESmallEN:    384,
	fastembed.BGEBaseENV15:  768,
	fastembed.BGEBaseEN:     768,
	fastembed.BGESmallZH:    512,
	fastembed.AllMiniLML6V2: 384,
}

// NewFastEmbedEmbedder downloads (on first use) and loads a local ONNX
// embedding model.
func NewFastEmbedEmbedder(cfg FastEmbedConfig) (*FastEmbedEmbedder, error) {
	model, ok := fastembedModels[cfg.Model]
	if !ok {
		// Accept fastembed's own model names ("fast-bge-small-en-v1.5").
		model = fastembed.EmbeddingModel(cfg.Model)
		if _, known := fastembedDimensions[model]; !known {
			return nil, fmt.Errorf("unsupported local model %q (supported: BAAI/bge-small-en-v1.5, BAAI/bge-base-en-v1.5, sentence-transformers/all-MiniLM-L6-v2)", cfg.Model)
		}
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving model cache dir: %w", err)
		}
		cacheDir = filepath.Join(home, ".cache", "embed-server", "models")
	}

	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = 512
	}

	showProgress := false
	flagEmbed, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             cacheDir,
		MaxLength:            maxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing fastembed: %w", err)
	}

	return &FastEmbedEmbedder{
		model:     flagEmbed,
		modelName: cfg.Model,
		dimension: fastembedDimensions[model],
	}, nil
}

func (e *FastEmbedEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// The ONNX session is not safe for concurrent Run calls.
	e.mu.Lock()
	defer e.mu.Unlock()

	vecs, err := e.model.Embed([]string{text}, 1)
	if err != nil {
		return nil, fmt.Errorf("fastembed encode: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("fastembed encode: empty result")
	}
	return Normalize(Vector(vecs[0])), nil
}

// Model returns the configured model name.
func (e *FastEmbedEmbedder) Model() string { return e.modelName }

// Dimension returns the model's output dimensionality.
func (e *FastEmbedEmbedder) Dimension() int { return e.dimension }

// Close releases the underlying ONNX session.
func (e *FastEmbedEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		return e.model.Destroy()
	}
	return nil
}
