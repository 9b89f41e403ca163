package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Save original env and restore after test
	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			// Parse and restore each env var
			for i, c := range env {
				if c == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}()

	// Clear env to test defaults
	os.Clearenv()

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Host", cfg.Host, "127.0.0.1"},
		{"Port", cfg.Port, 8000},
		{"LogLevel", cfg.LogLevel, "info"},
		{"EmbedProvider", cfg.EmbedProvider, "fastembed"},
		{"EmbedModel", cfg.EmbedModel, "thenlper/gte-large"},
		{"ModelCacheDir", cfg.ModelCacheDir, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("EMBED_PROVIDER", "ollama")
	t.Setenv("EMBED_MODEL", "nomic-embed-text")

	cfg := Load()

	if cfg.Port != 9100 {
		t.Errorf("expected Port=9100, got %d", cfg.Port)
	}
	if cfg.EmbedProvider != "ollama" {
		t.Errorf("expected EmbedProvider=ollama, got %s", cfg.EmbedProvider)
	}
	if cfg.EmbedModel != "nomic-embed-text" {
		t.Errorf("expected EmbedModel=nomic-embed-text, got %s", cfg.EmbedModel)
	}
}
