package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wikiquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const exampleURL = "https://en.wikipedia.org/wiki/Example_Country"

var exampleArticle = &domain.ArticleText{
	Title: "Example Country",
	Body:  "Example Country is a fictional nation. The capital is Example City.",
}

func exampleQuiz() *domain.QuizOutput {
	quiz := &domain.QuizOutput{
		Title:         "Example Country Quiz",
		Summary:       "A quiz about Example Country.",
		KeyEntities:   []string{"Example City"},
		RelatedTopics: []string{"Fictional geography"},
	}
	for i := 0; i < domain.MinQuestions; i++ {
		quiz.Questions = append(quiz.Questions, domain.Question{
			Question:      "What is the capital of Example Country?",
			Options:       []string{"Example City", "Sample Town", "Test Village", "Mock Harbor"},
			CorrectAnswer: "Example City",
			Explanation:   "The article states that the capital is Example City.",
		})
	}
	return quiz
}

type pipelineMocks struct {
	extractor   *MockContentExtractor
	synthesizer *MockQuizSynthesizer
	store       *MockQuizStore
}

func newTestPipeline() (QuizService, pipelineMocks) {
	m := pipelineMocks{
		extractor:   new(MockContentExtractor),
		synthesizer: new(MockQuizSynthesizer),
		store:       new(MockQuizStore),
	}
	return NewQuizService(m.extractor, m.synthesizer, m.store), m
}

func TestQuizPipeline_GenerateQuiz_Success(t *testing.T) {
	svc, m := newTestPipeline()
	quiz := exampleQuiz()
	record := &domain.QuizRecord{ID: 1, URL: exampleURL, Title: exampleArticle.Title, DateGenerated: time.Now().UTC(), QuizData: *quiz}

	m.extractor.On("Extract", mock.Anything, exampleURL).Return(exampleArticle, nil)
	m.synthesizer.On("Synthesize", mock.Anything, exampleArticle).Return(quiz, nil)
	m.store.On("Save", mock.Anything, exampleURL, "Example Country",
		mock.MatchedBy(func(content *string) bool { return content != nil && *content == exampleArticle.Body }),
		quiz).Return(record, nil)

	got, err := svc.GenerateQuiz(context.Background(), "  "+exampleURL+"  ")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	m.extractor.AssertExpectations(t)
	m.synthesizer.AssertExpectations(t)
	m.store.AssertExpectations(t)
}

func TestQuizPipeline_GenerateQuiz_ExtractFailureStoresNothing(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode domain.ErrorCode
	}{
		{name: "fetch error", err: domain.NewFetchError(exampleURL, errors.New("404")), wantCode: domain.CodeFetchFailed},
		{name: "parse error", err: domain.NewParseError("Could not find main content area", nil), wantCode: domain.CodeParseFailed},
		{name: "untyped error", err: errors.New("unexpected EOF"), wantCode: domain.CodeFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestPipeline()
			m.extractor.On("Extract", mock.Anything, exampleURL).Return(nil, tt.err)

			got, err := svc.GenerateQuiz(context.Background(), exampleURL)
			assert.Nil(t, got)
			assert.Equal(t, tt.wantCode, domain.CodeOf(err))
			assert.ErrorIs(t, err, tt.err)

			m.synthesizer.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
			m.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestQuizPipeline_GenerateQuiz_SynthesizeFailureStoresNothing(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode domain.ErrorCode
	}{
		{name: "schema error", err: domain.NewSchemaError(errors.New("questions: has 3 items")), wantCode: domain.CodeSchemaInvalid},
		{name: "generation error", err: domain.NewGenerationError(errors.New("quota")), wantCode: domain.CodeGenerationFailed},
		{name: "untyped error", err: errors.New("boom"), wantCode: domain.CodeGenerationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestPipeline()
			m.extractor.On("Extract", mock.Anything, exampleURL).Return(exampleArticle, nil)
			m.synthesizer.On("Synthesize", mock.Anything, exampleArticle).Return(nil, tt.err)

			got, err := svc.GenerateQuiz(context.Background(), exampleURL)
			assert.Nil(t, got)
			assert.Equal(t, tt.wantCode, domain.CodeOf(err))
			m.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestQuizPipeline_GenerateQuiz_PersistFailureReturnsNoQuiz(t *testing.T) {
	for _, saveErr := range []error{
		domain.NewStorageError("Failed to save quiz", errors.New("disk full")),
		errors.New("disk full"),
	} {
		svc, m := newTestPipeline()
		m.extractor.On("Extract", mock.Anything, exampleURL).Return(exampleArticle, nil)
		m.synthesizer.On("Synthesize", mock.Anything, exampleArticle).Return(exampleQuiz(), nil)
		m.store.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, saveErr)

		got, err := svc.GenerateQuiz(context.Background(), exampleURL)
		assert.Nil(t, got)
		assert.Equal(t, domain.CodeStorage, domain.CodeOf(err))
	}
}

func TestQuizPipeline_GenerateQuiz_EmptyURL(t *testing.T) {
	svc, m := newTestPipeline()

	_, err := svc.GenerateQuiz(context.Background(), "   ")
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
	m.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestQuizPipeline_GenerateQuiz_CallerCancellationDoesNotCancelStages(t *testing.T) {
	svc, m := newTestPipeline()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	m.extractor.On("Extract", live, exampleURL).Return(exampleArticle, nil)
	m.synthesizer.On("Synthesize", live, exampleArticle).Return(exampleQuiz(), nil)
	m.store.On("Save", live, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.QuizRecord{ID: 9}, nil)

	got, err := svc.GenerateQuiz(ctx, exampleURL)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)
}

func TestQuizPipeline_ListHistory(t *testing.T) {
	svc, m := newTestPipeline()
	summaries := []domain.QuizSummary{{ID: 2, Title: "B"}, {ID: 1, Title: "A"}}
	m.store.On("ListAll", mock.Anything).Return(summaries, nil).Once()

	got, err := svc.ListHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, summaries, got)

	m.store.On("ListAll", mock.Anything).Return(nil, errors.New("connection reset")).Once()
	_, err = svc.ListHistory(context.Background())
	assert.Equal(t, domain.CodeStorage, domain.CodeOf(err))
}

func TestQuizPipeline_GetQuiz(t *testing.T) {
	svc, m := newTestPipeline()
	record := &domain.QuizRecord{ID: 4, QuizData: *exampleQuiz()}
	m.store.On("Get", mock.Anything, int64(4)).Return(record, nil)
	m.store.On("Get", mock.Anything, int64(99999)).Return(nil, domain.NewQuizNotFoundError(99999))
	m.store.On("Get", mock.Anything, int64(5)).Return(nil, errors.New("connection reset"))

	got, err := svc.GetQuiz(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, record, got)

	_, err = svc.GetQuiz(context.Background(), 99999)
	assert.Equal(t, domain.CodeQuizNotFound, domain.CodeOf(err))

	_, err = svc.GetQuiz(context.Background(), 5)
	assert.Equal(t, domain.CodeStorage, domain.CodeOf(err))
}
