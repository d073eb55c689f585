package service

import (
	"context"
	"time"

	"wikiquiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockContentExtractor ---
type MockContentExtractor struct {
	mock.Mock
}

func (m *MockContentExtractor) Extract(ctx context.Context, url string) (*domain.ArticleText, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArticleText), args.Error(1)
}

// --- MockQuizSynthesizer ---
type MockQuizSynthesizer struct {
	mock.Mock
}

func (m *MockQuizSynthesizer) Synthesize(ctx context.Context, article *domain.ArticleText) (*domain.QuizOutput, error) {
	args := m.Called(ctx, article)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizOutput), args.Error(1)
}

// --- MockQuizStore ---
type MockQuizStore struct {
	mock.Mock
}

func (m *MockQuizStore) Save(ctx context.Context, url, title string, scrapedContent *string, quiz *domain.QuizOutput) (*domain.QuizRecord, error) {
	args := m.Called(ctx, url, title, scrapedContent, quiz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizRecord), args.Error(1)
}

func (m *MockQuizStore) ListAll(ctx context.Context) ([]domain.QuizSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizSummary), args.Error(1)
}

func (m *MockQuizStore) Get(ctx context.Context, id int64) (*domain.QuizRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizRecord), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
