package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"

	"go.uber.org/zap"
)

// QuizService is the request-level entry point of the quiz pipeline.
type QuizService interface {
	GenerateQuiz(ctx context.Context, url string) (*domain.QuizRecord, error)
	ListHistory(ctx context.Context) ([]domain.QuizSummary, error)
	GetQuiz(ctx context.Context, id int64) (*domain.QuizRecord, error)
}

type pipelineState string

const (
	stateStart            pipelineState = "start"
	stateExtracting       pipelineState = "extracting"
	stateSynthesizing     pipelineState = "synthesizing"
	statePersisting       pipelineState = "persisting"
	stateDone             pipelineState = "done"
	stateExtractFailed    pipelineState = "extract_failed"
	stateSynthesizeFailed pipelineState = "synthesize_failed"
	statePersistFailed    pipelineState = "persist_failed"
)

type quizPipeline struct {
	extractor   domain.ContentExtractor
	synthesizer domain.QuizSynthesizer
	store       domain.QuizStore
}

// NewQuizService composes extractor, synthesizer and store into one pipeline.
func NewQuizService(extractor domain.ContentExtractor, synthesizer domain.QuizSynthesizer, store domain.QuizStore) QuizService {
	return &quizPipeline{
		extractor:   extractor,
		synthesizer: synthesizer,
		store:       store,
	}
}

// GenerateQuiz runs extract, synthesize and persist in order and stops at the
// first failure. Nothing is stored unless synthesis succeeded.
func (p *quizPipeline) GenerateQuiz(ctx context.Context, url string) (*domain.QuizRecord, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, domain.NewInvalidInputError("url is required")
	}

	// Stage calls run to completion or to their own deadline even if the caller goes away.
	stageCtx := context.WithoutCancel(ctx)
	l := logger.Get().With(zap.String("url", url))
	start := time.Now()
	transition := func(state pipelineState, fields ...zap.Field) {
		l.Info("Quiz pipeline transition", append(fields, zap.String("state", string(state)))...)
	}

	transition(stateStart)

	transition(stateExtracting)
	article, err := p.extractor.Extract(stageCtx, url)
	if err != nil {
		err = classify(err, domain.CodeFetchFailed, "Failed to extract article")
		l.Warn("Quiz pipeline transition", zap.String("state", string(stateExtractFailed)), zap.Error(err))
		return nil, err
	}

	transition(stateSynthesizing, zap.String("title", article.Title))
	quiz, err := p.synthesizer.Synthesize(stageCtx, article)
	if err != nil {
		err = classify(err, domain.CodeGenerationFailed, "Failed to generate quiz with LLM")
		l.Warn("Quiz pipeline transition", zap.String("state", string(stateSynthesizeFailed)), zap.Error(err))
		return nil, err
	}

	transition(statePersisting, zap.Int("questions", len(quiz.Questions)))
	scraped := article.Body
	record, err := p.store.Save(stageCtx, url, article.Title, &scraped, quiz)
	if err != nil {
		err = classify(err, domain.CodeStorage, "Failed to save quiz")
		l.Error("Quiz pipeline transition", zap.String("state", string(statePersistFailed)), zap.Error(err))
		return nil, err
	}

	transition(stateDone, zap.Int64("quiz_id", record.ID), zap.Duration("duration", time.Since(start)))
	return record, nil
}

func (p *quizPipeline) ListHistory(ctx context.Context) ([]domain.QuizSummary, error) {
	summaries, err := p.store.ListAll(ctx)
	if err != nil {
		return nil, classify(err, domain.CodeStorage, "Failed to list quizzes")
	}
	return summaries, nil
}

func (p *quizPipeline) GetQuiz(ctx context.Context, id int64) (*domain.QuizRecord, error) {
	record, err := p.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, domain.CodeStorage, "Failed to load quiz")
	}
	return record, nil
}

// classify keeps an error that already carries a domain code and wraps any
// other error in the given stage code.
func classify(err error, code domain.ErrorCode, message string) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewError(code, message, err)
}
