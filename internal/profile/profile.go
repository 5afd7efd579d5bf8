package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where workbench stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// JWTSecret signs and verifies API bearer tokens
	JWTSecret string

	// AI configuration
	AIEnabled           bool   // WORKBENCH_AI_ENABLED
	AIEmbeddingProvider string // WORKBENCH_AI_EMBEDDING_PROVIDER (default: openai)
	AILLMProvider       string // WORKBENCH_AI_LLM_PROVIDER (default: openai)
	AIAPIKey            string // WORKBENCH_AI_API_KEY
	AIBaseURL           string // WORKBENCH_AI_BASE_URL
	AIOllamaBaseURL     string // WORKBENCH_AI_OLLAMA_BASE_URL (default: http://localhost:11434)
	AIEmbeddingModel    string // WORKBENCH_AI_EMBEDDING_MODEL (default: text-embedding-3-small)
	AIEmbeddingDims     int    // WORKBENCH_AI_EMBEDDING_DIMENSIONS (default: 1536)
	AILLMModel          string // WORKBENCH_AI_LLM_MODEL (default: gpt-4o-mini)
	AILLMHardModel      string // WORKBENCH_AI_LLM_HARD_MODEL (default: gpt-4o)
	AIMaxTokens         int    // WORKBENCH_AI_MAX_TOKENS (default: 800)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and a provider is reachable,
// i.e. an API key is configured or a local ollama endpoint is set.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && (p.AIAPIKey != "" || p.AIOllamaBaseURL != "")
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault parses a positive integer environment variable, falling
// back to the default on absence or malformed input.
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// FromEnv loads AI configuration from environment variables.
func (p *Profile) FromEnv() {
	p.AIEnabled = os.Getenv("WORKBENCH_AI_ENABLED") == "true"
	p.AIEmbeddingProvider = getEnvOrDefault("WORKBENCH_AI_EMBEDDING_PROVIDER", "openai")
	p.AILLMProvider = getEnvOrDefault("WORKBENCH_AI_LLM_PROVIDER", "openai")
	p.AIAPIKey = os.Getenv("WORKBENCH_AI_API_KEY")
	p.AIBaseURL = os.Getenv("WORKBENCH_AI_BASE_URL")
	p.AIOllamaBaseURL = getEnvOrDefault("WORKBENCH_AI_OLLAMA_BASE_URL", "http://localhost:11434")
	p.AIEmbeddingModel = getEnvOrDefault("WORKBENCH_AI_EMBEDDING_MODEL", "text-embedding-3-small")
	p.AILLMModel = getEnvOrDefault("WORKBENCH_AI_LLM_MODEL", "gpt-4o-mini")
	p.AILLMHardModel = getEnvOrDefault("WORKBENCH_AI_LLM_HARD_MODEL", "gpt-4o")
	p.AIEmbeddingDims = getEnvIntOrDefault("WORKBENCH_AI_EMBEDDING_DIMENSIONS", 1536)
	p.AIMaxTokens = getEnvIntOrDefault("WORKBENCH_AI_MAX_TOKENS", 800)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/workbench"
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("workbench_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres driver")
	}

	// An enabled AI stack without credentials is a hard configuration
	// error: there is no sensible fallback for an unconfigured provider.
	if p.AIEnabled && !p.IsAIEnabled() {
		return errors.New("AI is enabled but no API key or ollama endpoint is configured")
	}

	return nil
}
