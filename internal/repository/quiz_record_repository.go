package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const (
	insertQuizQuery = `INSERT INTO quizzes (url, title, date_generated, scraped_content, full_quiz_data)
	VALUES (?, ?, ?, ?, ?)
	RETURNING id`

	listQuizzesQuery = `SELECT id, url, title, date_generated
	FROM quizzes
	ORDER BY date_generated DESC, id DESC`

	getQuizQuery = `SELECT id, url, title, date_generated, scraped_content, full_quiz_data
	FROM quizzes
	WHERE id = ?`
)

// QuizRecordRepository implements domain.QuizStore using sqlx.DB
type QuizRecordRepository struct {
	db        *sqlx.DB
	txManager domain.TransactionManager
	now       func() time.Time
}

// NewQuizRecordRepository creates a new instance of QuizRecordRepository
func NewQuizRecordRepository(db *sqlx.DB, txManager domain.TransactionManager) domain.QuizStore {
	return &QuizRecordRepository{db: db, txManager: txManager, now: time.Now}
}

// Save implements domain.QuizStore
func (r *QuizRecordRepository) Save(ctx context.Context, url, title string, scrapedContent *string, quiz *domain.QuizOutput) (*domain.QuizRecord, error) {
	if quiz == nil {
		return nil, domain.NewInvalidInputError("quiz is required")
	}

	payload, err := json.Marshal(quiz)
	if err != nil {
		return nil, domain.NewStorageError("Failed to encode quiz", err)
	}

	row := models.QuizRecord{
		URL:           url,
		Title:         title,
		DateGenerated: r.now().UTC(),
		FullQuizData:  string(payload),
	}
	if scrapedContent != nil {
		row.ScrapedContent = sql.NullString{String: *scrapedContent, Valid: true}
	}

	err = r.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, r.db)
		return exec.GetContext(ctx, &row.ID, exec.Rebind(insertQuizQuery),
			row.URL, row.Title, row.DateGenerated, row.ScrapedContent, row.FullQuizData)
	})
	if err != nil {
		return nil, domain.NewStorageError("Failed to save quiz", err)
	}

	return &domain.QuizRecord{
		ID:             row.ID,
		URL:            row.URL,
		Title:          row.Title,
		DateGenerated:  row.DateGenerated,
		ScrapedContent: scrapedContent,
		QuizData:       *quiz,
	}, nil
}

// ListAll implements domain.QuizStore
func (r *QuizRecordRepository) ListAll(ctx context.Context) ([]domain.QuizSummary, error) {
	exec := GetExecutor(ctx, r.db)

	var rows []models.QuizSummary
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(listQuizzesQuery)); err != nil {
		return nil, domain.NewStorageError("Failed to list quizzes", err)
	}

	summaries := make([]domain.QuizSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.QuizSummary{
			ID:            row.ID,
			URL:           row.URL,
			Title:         row.Title,
			DateGenerated: row.DateGenerated.UTC(),
		})
	}
	return summaries, nil
}

// Get implements domain.QuizStore
func (r *QuizRecordRepository) Get(ctx context.Context, id int64) (*domain.QuizRecord, error) {
	exec := GetExecutor(ctx, r.db)

	var row models.QuizRecord
	if err := exec.GetContext(ctx, &row, exec.Rebind(getQuizQuery), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return nil, domain.NewStorageError("Failed to load quiz", err)
	}

	return toDomainQuizRecord(&row)
}

func toDomainQuizRecord(row *models.QuizRecord) (*domain.QuizRecord, error) {
	var quiz domain.QuizOutput
	if err := json.Unmarshal([]byte(row.FullQuizData), &quiz); err != nil {
		return nil, domain.NewCorruptDataError(row.ID, err)
	}

	record := &domain.QuizRecord{
		ID:            row.ID,
		URL:           row.URL,
		Title:         row.Title,
		DateGenerated: row.DateGenerated.UTC(),
		QuizData:      quiz,
	}
	if row.ScrapedContent.Valid {
		content := row.ScrapedContent.String
		record.ScrapedContent = &content
	}
	return record, nil
}

// Static assertion to ensure QuizRecordRepository implements QuizStore
var _ domain.QuizStore = (*QuizRecordRepository)(nil)
