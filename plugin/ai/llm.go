package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/workbenchhq/workbench/plugin/ai/timeout"
)

// ProviderCitation is a raw citation emitted by the completion provider.
// RefID is provider-local, usually a title fragment rather than a real id,
// and must be reconciled against retrieved records before display.
type ProviderCitation struct {
	RefID string
}

// CompletionResult is the outcome of one completion call.
type CompletionResult struct {
	Answer     string
	Citations  []ProviderCitation
	TokensUsed int
}

// CompletionService is the LLM completion service interface.
type CompletionService interface {
	// Complete generates an answer for the given prompts using the
	// requested model. maxTokens bounds the response length.
	Complete(ctx context.Context, systemPrompt, userPrompt, model string, maxTokens int) (*CompletionResult, error)
}

type completionService struct {
	model       llms.Model
	temperature float32
}

// NewCompletionService creates a new CompletionService.
func NewCompletionService(cfg *LLMConfig) (CompletionService, error) {
	var model llms.Model
	var err error

	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)

	case "ollama":
		model, err = ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(cfg.BaseURL),
		)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, err
	}

	return &completionService{
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

func (s *completionService) Complete(ctx context.Context, systemPrompt, userPrompt, model string, maxTokens int) (*CompletionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout.CompletionTimeout)
	defer cancel()

	messages := []llms.MessageContent{}
	if systemPrompt != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		})
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
	})

	resp, err := s.model.GenerateContent(ctx, messages,
		llms.WithModel(model),
		llms.WithMaxTokens(maxTokens),
		llms.WithTemperature(float64(s.temperature)),
	)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}
	choice := resp.Choices[0]

	return &CompletionResult{
		Answer:     choice.Content,
		Citations:  ParseSourceMarkers(choice.Content),
		TokensUsed: totalTokens(choice.GenerationInfo),
	}, nil
}

// sourceMarkerPattern matches inline [Source: ...] markers the system prompt
// instructs the model to emit when it grounds a statement in context.
var sourceMarkerPattern = regexp.MustCompile(`\[Source:\s*([^\]]+)\]`)

// ParseSourceMarkers extracts provider citations from inline source markers
// in the answer text. Duplicate markers are collapsed, first occurrence wins.
func ParseSourceMarkers(answer string) []ProviderCitation {
	matches := sourceMarkerPattern.FindAllStringSubmatch(answer, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := map[string]bool{}
	citations := []ProviderCitation{}
	for _, m := range matches {
		ref := strings.TrimSpace(m[1])
		if ref == "" || seen[strings.ToLower(ref)] {
			continue
		}
		seen[strings.ToLower(ref)] = true
		citations = append(citations, ProviderCitation{RefID: ref})
	}
	return citations
}

func totalTokens(info map[string]any) int {
	if info == nil {
		return 0
	}
	if v, ok := info["TotalTokens"].(int); ok {
		return v
	}
	prompt, _ := info["PromptTokens"].(int)
	completion, _ := info["CompletionTokens"].(int)
	return prompt + completion
}
