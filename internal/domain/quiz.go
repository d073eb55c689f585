package domain

import (
	"context"
	"time"
)

// ArticleText is the cleaned prose of a fetched article.
type ArticleText struct {
	Title string
	Body  string
}

// Question is one multiple-choice question of a quiz.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuizOutput is the schema the generative model has to satisfy.
type QuizOutput struct {
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	Questions     []Question `json:"questions"`
	KeyEntities   []string   `json:"key_entities"`
	RelatedTopics []string   `json:"related_topics"`
}

// QuizRecord is the persisted, immutable result of one pipeline run.
type QuizRecord struct {
	ID             int64      `json:"id"`
	URL            string     `json:"url"`
	Title          string     `json:"title"`
	DateGenerated  time.Time  `json:"date_generated"`
	ScrapedContent *string    `json:"scraped_content,omitempty"`
	QuizData       QuizOutput `json:"quiz_data"`
}

// QuizSummary is the history view of a QuizRecord, without the quiz body.
type QuizSummary struct {
	ID            int64     `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	DateGenerated time.Time `json:"date_generated"`
}

// ContentExtractor fetches a page and reduces it to article text.
type ContentExtractor interface {
	// Extract fails with CodeFetchFailed or CodeParseFailed.
	Extract(ctx context.Context, url string) (*ArticleText, error)
}

// QuizSynthesizer turns article text into a validated quiz.
type QuizSynthesizer interface {
	// Synthesize fails with CodeGenerationFailed or CodeSchemaInvalid.
	Synthesize(ctx context.Context, article *ArticleText) (*QuizOutput, error)
}

// QuizStore persists quiz records and assigns their identity.
type QuizStore interface {
	Save(ctx context.Context, url, title string, scrapedContent *string, quiz *QuizOutput) (*QuizRecord, error)
	ListAll(ctx context.Context) ([]QuizSummary, error)
	// Get fails with CodeQuizNotFound when no record has the id and with
	// CodeCorruptData when the stored quiz does not decode.
	Get(ctx context.Context, id int64) (*QuizRecord, error)
}

// TransactionManager runs fn inside one database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
