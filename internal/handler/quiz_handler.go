package handler

import (
	"context"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/middleware"
	"wikiquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	APIName    = "AI Wiki Quiz Generator API"
	APIVersion = "1.0.0"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker func(ctx context.Context) error

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
	health  HealthChecker
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, health HealthChecker) *QuizHandler {
	return &QuizHandler{
		service: service,
		health:  health,
	}
}

// SetupRoutes registers the quiz API on router.
func SetupRoutes(router fiber.Router, h *QuizHandler) {
	validator := middleware.NewValidationMiddleware()

	router.Get("/", h.Root)
	router.Get("/healthz", h.Health)
	router.Post("/generate_quiz", validator.ValidateGenerateQuizRequest(), h.GenerateQuiz)
	router.Get("/history", h.GetHistory)
	router.Get("/quiz/:id", validator.ValidateQuizID(), h.GetQuiz)
}

// GenerateQuiz godoc
// @Summary Generate a quiz from a Wikipedia article
// @Description Scrapes the article, asks the model for a quiz and stores it in the history
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Article URL"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /generate_quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	url, _ := c.Locals(middleware.LocalValidatedURL).(string)

	record, err := h.service.GenerateQuiz(c.UserContext(), url)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewQuizResponse(record))
}

// GetHistory godoc
// @Summary List generated quizzes
// @Description Returns every stored quiz, newest first, without quiz bodies
// @Tags quiz
// @Produce json
// @Success 200 {array} dto.HistoryItem
// @Failure 500 {object} middleware.ErrorResponse
// @Router /history [get]
func (h *QuizHandler) GetHistory(c *fiber.Ctx) error {
	summaries, err := h.service.ListHistory(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(dto.NewHistoryItems(summaries))
}

// GetQuiz godoc
// @Summary Get a stored quiz
// @Tags quiz
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	id, ok := c.Locals(middleware.LocalValidatedQuizID).(int64)
	if !ok {
		return domain.NewInvalidInputError("quiz id is required")
	}

	record, err := h.service.GetQuiz(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewQuizResponse(record))
}

// Root godoc
// @Summary API information
// @Tags meta
// @Produce json
// @Success 200 {object} dto.APIInfoResponse
// @Router / [get]
func (h *QuizHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.APIInfoResponse{Message: APIName, Version: APIVersion})
}

// Health godoc
// @Summary Liveness and database reachability
// @Tags meta
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /healthz [get]
func (h *QuizHandler) Health(c *fiber.Ctx) error {
	if h.health != nil {
		if err := h.health(c.UserContext()); err != nil {
			return domain.NewStorageError("Database is unreachable", err)
		}
	}
	return c.JSON(dto.HealthResponse{Status: "ok"})
}
