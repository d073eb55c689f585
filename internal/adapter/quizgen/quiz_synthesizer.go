package quizgen

import (
	"context"
	"fmt"
	"time"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"

	"go.uber.org/zap"
)

// GenerationRequest is one prompt sent to a generative backend.
type GenerationRequest struct {
	System      string
	User        string
	Temperature float32
}

// TextGenerator returns the raw text reply of a generative model.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// QuizSynthesizer implements domain.QuizSynthesizer on top of a TextGenerator.
type QuizSynthesizer struct {
	generator   TextGenerator
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewQuizSynthesizer creates a synthesizer that bounds every model call by cfg.Timeout.
func NewQuizSynthesizer(generator TextGenerator, cfg config.LLMConfig, logger *zap.Logger) *QuizSynthesizer {
	return &QuizSynthesizer{
		generator:   generator,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// NewTextGenerator selects the backend named by cfg.Provider.
func NewTextGenerator(ctx context.Context, cfg config.LLMConfig) (TextGenerator, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiGenerator(ctx, cfg, "")
	case "ollama":
		return NewOllamaGenerator(cfg)
	case "openai":
		return NewOpenAIGenerator(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}

// Synthesize implements domain.QuizSynthesizer
func (s *QuizSynthesizer) Synthesize(ctx context.Context, article *domain.ArticleText) (*domain.QuizOutput, error) {
	if article == nil {
		return nil, domain.NewInvalidInputError("article is required")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.generator.Generate(ctx, GenerationRequest{
		System:      SystemInstruction,
		User:        BuildArticlePrompt(article),
		Temperature: s.temperature,
	})
	if err != nil {
		s.logger.Error("Model call failed",
			zap.String("title", article.Title),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, domain.NewGenerationError(err)
	}
	s.logger.Debug("Raw model reply received", zap.Int("reply_bytes", len(raw)))

	quiz, err := domain.ParseQuizOutput(raw)
	if err != nil {
		s.logger.Warn("Model reply rejected", zap.String("title", article.Title), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Quiz synthesized",
		zap.String("title", article.Title),
		zap.Int("questions", len(quiz.Questions)),
		zap.Duration("duration", time.Since(start)))
	return quiz, nil
}

// Static assertion to ensure QuizSynthesizer implements domain.QuizSynthesizer
var _ domain.QuizSynthesizer = (*QuizSynthesizer)(nil)
