package dto

import (
	"time"

	"wikiquiz/internal/domain"
)

// GenerateQuizRequest is the body of POST /generate_quiz
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	URL string `json:"url" example:"https://en.wikipedia.org/wiki/Alan_Turing"`
}

// QuizResponse is a generated or stored quiz with its identifier
// @Description Quiz with its history identifier
type QuizResponse struct {
	ID int64 `json:"id"`
	domain.QuizOutput
}

// HistoryItem is one entry of GET /history
type HistoryItem struct {
	ID            int64     `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	DateGenerated time.Time `json:"date_generated"`
}

// APIInfoResponse is returned by GET /
type APIInfoResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

func NewQuizResponse(record *domain.QuizRecord) QuizResponse {
	return QuizResponse{ID: record.ID, QuizOutput: record.QuizData}
}

func NewHistoryItems(summaries []domain.QuizSummary) []HistoryItem {
	items := make([]HistoryItem, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, HistoryItem{
			ID:            s.ID,
			URL:           s.URL,
			Title:         s.Title,
			DateGenerated: s.DateGenerated,
		})
	}
	return items
}
