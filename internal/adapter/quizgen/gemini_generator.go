package quizgen

import (
	"context"
	"errors"
	"fmt"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"

	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini API with a response schema describing a quiz.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	schema *genai.Schema
}

// NewGeminiGenerator creates a Gemini client. An empty baseURL uses the public endpoint.
func NewGeminiGenerator(ctx context.Context, cfg config.LLMConfig, baseURL string) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  cfg.Model,
		schema: QuizResponseSchema(),
	}, nil
}

// Generate implements TextGenerator
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	temperature := req.Temperature
	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(req.User),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
			Temperature:       &temperature,
			ResponseMIMEType:  "application/json",
			ResponseSchema:    g.schema,
		},
	)
	if err != nil {
		return "", err
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	return result.Text(), nil
}

// QuizResponseSchema describes domain.QuizOutput for schema-tagged output.
func QuizResponseSchema() *genai.Schema {
	stringList := func() *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	}
	minQuestions, maxQuestions := int64(domain.MinQuestions), int64(domain.MaxQuestions)
	options := int64(domain.OptionsPerQuestion)

	question := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": {Type: genai.TypeString},
			"options": {
				Type:     genai.TypeArray,
				Items:    &genai.Schema{Type: genai.TypeString},
				MinItems: &options,
				MaxItems: &options,
			},
			"correct_answer": {Type: genai.TypeString},
			"explanation":    {Type: genai.TypeString},
		},
		Required:         []string{"question", "options", "correct_answer", "explanation"},
		PropertyOrdering: []string{"question", "options", "correct_answer", "explanation"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":   {Type: genai.TypeString},
			"summary": {Type: genai.TypeString},
			"questions": {
				Type:     genai.TypeArray,
				Items:    question,
				MinItems: &minQuestions,
				MaxItems: &maxQuestions,
			},
			"key_entities":   stringList(),
			"related_topics": stringList(),
		},
		Required:         []string{"title", "summary", "questions", "key_entities", "related_topics"},
		PropertyOrdering: []string{"title", "summary", "questions", "key_entities", "related_topics"},
	}
}

// Static assertion to ensure GeminiGenerator implements TextGenerator
var _ TextGenerator = (*GeminiGenerator)(nil)
