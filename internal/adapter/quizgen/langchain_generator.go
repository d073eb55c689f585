package quizgen

import (
	"context"
	"errors"
	"fmt"

	"wikiquiz/internal/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainGenerator adapts any langchaingo chat model to TextGenerator.
type LangchainGenerator struct {
	model llms.Model
}

func NewLangchainGenerator(model llms.Model) *LangchainGenerator {
	return &LangchainGenerator{model: model}
}

// NewOllamaGenerator connects to the Ollama server at cfg.Server.
func NewOllamaGenerator(cfg config.LLMConfig) (*LangchainGenerator, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.Server),
		ollama.WithModel(cfg.Model),
		ollama.WithFormat("json"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return NewLangchainGenerator(llm), nil
}

// NewOpenAIGenerator creates an OpenAI chat client.
func NewOpenAIGenerator(cfg config.LLMConfig) (*LangchainGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	llm, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return NewLangchainGenerator(llm), nil
}

// Generate implements TextGenerator
func (g *LangchainGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		llms.TextParts(llms.ChatMessageTypeHuman, req.User),
	}

	resp, err := g.model.GenerateContent(ctx, messages,
		llms.WithTemperature(float64(req.Temperature)),
		llms.WithJSONMode(),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("LLM returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// Static assertion to ensure LangchainGenerator implements TextGenerator
var _ TextGenerator = (*LangchainGenerator)(nil)
