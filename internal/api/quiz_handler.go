package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashquest/internal/api/shared"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/service"
)

// QuizHandler drives quiz sessions.
type QuizHandler struct {
	quiz   service.QuizService
	logger *slog.Logger
}

// NewQuizHandler creates a new QuizHandler
func NewQuizHandler(quiz service.QuizService, logger *slog.Logger) *QuizHandler {
	if quiz == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("quiz service cannot be nil for QuizHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{
		quiz:   quiz,
		logger: logger.With(slog.String("component", "quiz_handler")),
	}
}

// Start handles POST /api/quiz
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	view, err := h.quiz.Start(r.Context(), req.SetID, req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start quiz")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, view)
}

// Get handles GET /api/quiz/{id}
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	view, err := h.quiz.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load quiz")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Reveal handles POST /api/quiz/{id}/reveal
func (h *QuizHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	view, err := h.quiz.Reveal(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reveal answer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Grade handles POST /api/quiz/{id}/grade
func (h *QuizHandler) Grade(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req GradeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	result, err := h.quiz.Grade(r.Context(), id, *req.Correct)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to grade card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Answer handles POST /api/quiz/{id}/answer
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req AnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	result, err := h.quiz.Answer(r.Context(), id, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to grade answer")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("answer graded",
		slog.String("session_id", id.String()),
		slog.Bool("correct", result.Outcome.Correct))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// End handles DELETE /api/quiz/{id}
func (h *QuizHandler) End(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	summary, err := h.quiz.End(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to end quiz")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
