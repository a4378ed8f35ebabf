// questions.go implements the admin side of the Q&A box: the answer queue,
// answering, and removal of inappropriate submissions.
package admin

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
)

// QuestionHandlers handles the admin question endpoints
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

// @Summary      List questions
// @Description  Lists questions across all users, newest first. Filter by status to see the pending queue.
// @Tags         Questions
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "Lifecycle state (PENDING, ANSWERED)"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        per_page  query  int     false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "items: []models.Question, pagination: map"
// @Router       /api/admin/questions [get]
// ListQuestionsHandler lists questions across all users
// GET /api/admin/questions?status=PENDING&page=1&per_page=20
func (h *QuestionHandlers) ListQuestionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, offset := respond.PageParams(c)

		status := c.Query("status")
		if status != "" && status != models.QuestionStatusPending && status != models.QuestionStatusAnswered {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		questions, total, err := h.questionRepo.ListQuestions(c.Request.Context(), status, "", perPage, offset)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, respond.Paginated(questions, page, perPage, total))
	}
}

type answerRequest struct {
	AnswerText string `json:"answerText" binding:"required,min=2"`
}

// @Summary      Answer a question
// @Description  Records the answer and moves the question to ANSWERED. Answering again replaces the answer.
// @Tags         Questions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: models.Question"
// @Failure      404  {object}  map[string]interface{}  "Question not found"
// @Router       /api/admin/questions/{id}/answer [patch]
// AnswerQuestionHandler records an answer
// PATCH /api/admin/questions/:id/answer
func (h *QuestionHandlers) AnswerQuestionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req answerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		questionID := c.Param("id")
		adminID := c.GetString(respond.ContextUserID)

		question, err := h.questionRepo.GetQuestionByID(c.Request.Context(), questionID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if question == nil {
			respond.Error(c, http.StatusNotFound, "QUESTION_NOT_FOUND")
			return
		}

		answer := strings.TrimSpace(req.AnswerText)
		if err := h.questionRepo.AnswerQuestion(c.Request.Context(), questionID, answer, adminID); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionUpdate, models.AuditEntityQuestion, questionID,
			fmt.Sprintf("question answered for user %s", question.UserID)))

		question, err = h.questionRepo.GetQuestionByID(c.Request.Context(), questionID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.Success(c, http.StatusOK, "QUESTION_ANSWER_SUCCESS", gin.H{"question": question})
	}
}

// @Summary      Delete a question
// @Tags         Questions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Question not found"
// @Router       /api/admin/questions/{id} [delete]
// DeleteQuestionHandler removes a question
// DELETE /api/admin/questions/:id
func (h *QuestionHandlers) DeleteQuestionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		questionID := c.Param("id")

		question, err := h.questionRepo.GetQuestionByID(c.Request.Context(), questionID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if question == nil {
			respond.Error(c, http.StatusNotFound, "QUESTION_NOT_FOUND")
			return
		}

		if err := h.questionRepo.DeleteQuestion(c.Request.Context(), questionID); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionDelete, models.AuditEntityQuestion, questionID,
			fmt.Sprintf("question deleted (asked by user %s)", question.UserID)))

		respond.Success(c, http.StatusOK, "QUESTION_DELETE_SUCCESS", nil)
	}
}
