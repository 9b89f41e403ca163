package embeddings

import (
	"context"
	"fmt"
	"strings"
	"sync"

	ollama "github.com/ollama/ollama/api"
)

// OllamaEmbedder generates embeddings through a local Ollama daemon.
type OllamaEmbedder struct {
	client    *ollama.Client
	modelName string

	mu        sync.RWMutex
	dimension int // learned from the first successful embed
}

// NewOllamaEmbedder connects to the Ollama daemon (honoring OLLAMA_HOST)
// and verifies the model is present.
func NewOllamaEmbedder(ctx context.Context, model string) (*OllamaEmbedder, error) {
	if model == "" {
		return nil, fmt.Errorf("model name required")
	}
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}

	list, err := client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing ollama models: %w", err)
	}
	found := false
	for _, m := range list.Models {
		// Installed names carry a tag suffix ("nomic-embed-text:latest").
		if m.Name == model || strings.SplitN(m.Name, ":", 2)[0] == model {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("model %q is not installed in ollama (try `ollama pull %s`)", model, model)
	}

	return &OllamaEmbedder{client: client, modelName: model}, nil
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	resp, err := e.client.Embeddings(ctx, &ollama.EmbeddingRequest{
		Model:  e.modelName,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}
	vec := make(Vector, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}

	e.mu.Lock()
	if e.dimension == 0 {
		e.dimension = len(vec)
	}
	e.mu.Unlock()

	return Normalize(vec), nil
}

// Model returns the configured model name.
func (e *OllamaEmbedder) Model() string { return e.modelName }

// Dimension returns the model's output dimensionality, or 0 before the
// first embed (the daemon does not advertise it).
func (e *OllamaEmbedder) Dimension() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dimension
}
