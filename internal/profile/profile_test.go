package profile

import (
	"os"
	"testing"
)

func TestAIProfileDefaults(t *testing.T) {
	clearAIEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	tests := []struct {
		name     string
		expected string
		actual   string
	}{
		{"AIEmbeddingProvider default", "openai", profile.AIEmbeddingProvider},
		{"AILLMProvider default", "openai", profile.AILLMProvider},
		{"AIOllamaBaseURL default", "http://localhost:11434", profile.AIOllamaBaseURL},
		{"AIEmbeddingModel default", "text-embedding-3-small", profile.AIEmbeddingModel},
		{"AILLMModel default", "gpt-4o-mini", profile.AILLMModel},
		{"AILLMHardModel default", "gpt-4o", profile.AILLMHardModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.actual != tt.expected {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, tt.actual)
			}
		})
	}

	if profile.AIEnabled {
		t.Error("AIEnabled should be false by default")
	}
	if profile.AIEmbeddingDims != 1536 {
		t.Errorf("AIEmbeddingDims: expected 1536, got %d", profile.AIEmbeddingDims)
	}
}

func TestAIProfileFromEnv(t *testing.T) {
	clearAIEnvVars()

	os.Setenv("WORKBENCH_AI_ENABLED", "true")
	os.Setenv("WORKBENCH_AI_API_KEY", "test-key-123")
	os.Setenv("WORKBENCH_AI_LLM_MODEL", "deepseek-chat")
	defer clearAIEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	if !profile.AIEnabled {
		t.Error("AIEnabled should be true")
	}
	if profile.AIAPIKey != "test-key-123" {
		t.Errorf("AIAPIKey: expected %q, got %q", "test-key-123", profile.AIAPIKey)
	}
	if profile.AILLMModel != "deepseek-chat" {
		t.Errorf("AILLMModel: expected %q, got %q", "deepseek-chat", profile.AILLMModel)
	}
}

func TestAIProfileNumericEnvVars(t *testing.T) {
	clearAIEnvVars()

	os.Setenv("WORKBENCH_AI_EMBEDDING_DIMENSIONS", "768")
	os.Setenv("WORKBENCH_AI_MAX_TOKENS", "1200")
	defer clearAIEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	if profile.AIEmbeddingDims != 768 {
		t.Errorf("AIEmbeddingDims: expected 768, got %d", profile.AIEmbeddingDims)
	}
	if profile.AIMaxTokens != 1200 {
		t.Errorf("AIMaxTokens: expected 1200, got %d", profile.AIMaxTokens)
	}
}

func TestAIProfileMalformedNumericEnvVars(t *testing.T) {
	clearAIEnvVars()

	os.Setenv("WORKBENCH_AI_EMBEDDING_DIMENSIONS", "not-a-number")
	os.Setenv("WORKBENCH_AI_MAX_TOKENS", "-5")
	defer clearAIEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	if profile.AIEmbeddingDims != 1536 {
		t.Errorf("AIEmbeddingDims: expected default 1536, got %d", profile.AIEmbeddingDims)
	}
	if profile.AIMaxTokens != 800 {
		t.Errorf("AIMaxTokens: expected default 800, got %d", profile.AIMaxTokens)
	}
}

func TestIsAIEnabled(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		expected bool
	}{
		{"disabled", Profile{AIEnabled: false, AIAPIKey: "key"}, false},
		{"enabled with key", Profile{AIEnabled: true, AIAPIKey: "key"}, true},
		{"enabled with ollama", Profile{AIEnabled: true, AIOllamaBaseURL: "http://localhost:11434"}, true},
		{"enabled without provider", Profile{AIEnabled: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.IsAIEnabled(); got != tt.expected {
				t.Errorf("IsAIEnabled() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func clearAIEnvVars() {
	vars := []string{
		"WORKBENCH_AI_ENABLED",
		"WORKBENCH_AI_EMBEDDING_PROVIDER",
		"WORKBENCH_AI_LLM_PROVIDER",
		"WORKBENCH_AI_API_KEY",
		"WORKBENCH_AI_BASE_URL",
		"WORKBENCH_AI_OLLAMA_BASE_URL",
		"WORKBENCH_AI_EMBEDDING_MODEL",
		"WORKBENCH_AI_EMBEDDING_DIMENSIONS",
		"WORKBENCH_AI_LLM_MODEL",
		"WORKBENCH_AI_LLM_HARD_MODEL",
		"WORKBENCH_AI_MAX_TOKENS",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}
