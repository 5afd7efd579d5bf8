package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workbenchhq/workbench/internal/profile"
)

func TestNewConfigFromProfile(t *testing.T) {
	p := &profile.Profile{
		AIEnabled:           true,
		AIEmbeddingProvider: "openai",
		AILLMProvider:       "openai",
		AIAPIKey:            "sk-test",
		AIEmbeddingModel:    "text-embedding-3-small",
		AIEmbeddingDims:     1536,
		AILLMModel:          "gpt-4o-mini",
		AILLMHardModel:      "gpt-4o",
		AIMaxTokens:         800,
	}

	cfg := NewConfigFromProfile(p)
	require.True(t, cfg.Enabled)
	require.Equal(t, "openai", cfg.Embedding.Provider)
	require.Equal(t, 1536, cfg.Embedding.Dimensions)
	require.Equal(t, "sk-test", cfg.Embedding.APIKey)
	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	require.Equal(t, "gpt-4o", cfg.LLM.HardModel)
	require.Equal(t, 800, cfg.LLM.MaxTokens)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromProfileDisabled(t *testing.T) {
	cfg := NewConfigFromProfile(&profile.Profile{AIEnabled: false})
	require.False(t, cfg.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromProfileOllama(t *testing.T) {
	p := &profile.Profile{
		AIEnabled:           true,
		AIEmbeddingProvider: "ollama",
		AILLMProvider:       "ollama",
		AIOllamaBaseURL:     "http://localhost:11434",
		AIEmbeddingModel:    "nomic-embed-text",
		AIEmbeddingDims:     768,
		AILLMModel:          "llama3",
		AIMaxTokens:         800,
	}

	cfg := NewConfigFromProfile(p)
	require.True(t, cfg.Enabled)
	require.Empty(t, cfg.Embedding.APIKey)
	require.Equal(t, "http://localhost:11434", cfg.Embedding.BaseURL)
	require.Empty(t, cfg.LLM.APIKey)
	require.NoError(t, cfg.Validate())
	// HardModel falls back to the default model when unset.
	require.Equal(t, "llama3", cfg.LLM.HardModel)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "missing embedding provider",
			cfg: Config{
				Enabled: true,
				LLM:     LLMConfig{Provider: "openai", APIKey: "k"},
			},
			wantErr: "embedding provider is required",
		},
		{
			name: "missing embedding key",
			cfg: Config{
				Enabled:   true,
				Embedding: EmbeddingConfig{Provider: "openai"},
				LLM:       LLMConfig{Provider: "openai", APIKey: "k"},
			},
			wantErr: "embedding API key is required",
		},
		{
			name: "missing llm key",
			cfg: Config{
				Enabled:   true,
				Embedding: EmbeddingConfig{Provider: "openai", APIKey: "k"},
				LLM:       LLMConfig{Provider: "openai"},
			},
			wantErr: "LLM API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			require.Equal(t, tt.wantErr, err.Error())
		})
	}
}
