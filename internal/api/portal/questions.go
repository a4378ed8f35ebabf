package portal

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
)

// QuestionHandlers handles the youth side of the Q&A box
type QuestionHandlers struct {
	questionRepo *repositories.QuestionRepository
	recorder     *audit.Recorder
}

// NewQuestionHandlers creates a new QuestionHandlers instance
func NewQuestionHandlers(db *sql.DB, recorder *audit.Recorder) *QuestionHandlers {
	return &QuestionHandlers{
		questionRepo: repositories.NewQuestionRepository(db),
		recorder:     recorder,
	}
}

type createQuestionRequest struct {
	// empty text is rejected after trimming, with the question-specific key
	QuestionText string `json:"questionText" binding:"max=2000"`
}

// @Summary      Ask a question
// @Description  Submits a question to the district officers. Answers appear in the same thread.
// @Tags         Portal
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Success      201  {object}  map[string]interface{}  "data: models.Question"
// @Failure      400  {object}  map[string]interface{}  "Empty or oversized question"
// @Router       /api/me/questions [post]
// CreateQuestionHandler submits a new question
// POST /api/me/questions
func (h *QuestionHandlers) CreateQuestionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createQuestionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		text := strings.TrimSpace(req.QuestionText)
		if text == "" {
			respond.Error(c, http.StatusBadRequest, "QUESTION_CREATE_FAILED")
			return
		}

		question := &models.Question{
			UserID:       c.GetString(respond.ContextUserID),
			QuestionText: text,
		}
		if err := h.questionRepo.CreateQuestion(c.Request.Context(), question); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionCreate, models.AuditEntityQuestion,
			question.ID, "question submitted"))

		respond.Success(c, http.StatusCreated, "QUESTION_CREATE_SUCCESS", gin.H{"question": question})
	}
}

// @Summary      My questions
// @Description  Lists the caller's questions with any answers, newest first
// @Tags         Portal
// @Produce      json
// @Security     CookieAuth
// @Param        page      query  int  false  "Page number (default 1)"
// @Param        per_page  query  int  false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "items: []models.Question, pagination: map"
// @Router       /api/me/questions [get]
// ListMyQuestionsHandler lists the caller's questions
// GET /api/me/questions?page=1&per_page=20
func (h *QuestionHandlers) ListMyQuestionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, offset := respond.PageParams(c)

		questions, total, err := h.questionRepo.ListQuestions(c.Request.Context(),
			"", c.GetString(respond.ContextUserID), perPage, offset)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, respond.Paginated(questions, page, perPage, total))
	}
}
