// trainings.go implements handlers for training announcement CRUD.
package admin

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
)

// TrainingHandlers handles training management endpoints
type TrainingHandlers struct {
	trainingRepo *repositories.TrainingRepository
	recorder     *audit.Recorder
}

// NewTrainingHandlers creates a new TrainingHandlers instance
func NewTrainingHandlers(db *sql.DB, recorder *audit.Recorder) *TrainingHandlers {
	return &TrainingHandlers{
		trainingRepo: repositories.NewTrainingRepository(db),
		recorder:     recorder,
	}
}

type trainingRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=255"`
	Description string     `json:"description" binding:"required"`
	Provider    *string    `json:"provider"`
	Mode        string     `json:"mode" binding:"required"`
	StartDate   *time.Time `json:"startDate"`
	URL         *string    `json:"url"`
}

// @Summary      Create a training
// @Tags         Trainings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}  "data: models.Training"
// @Failure      400  {object}  map[string]interface{}  "Validation failed"
// @Router       /api/admin/trainings [post]
// CreateTrainingHandler creates a training announcement
// POST /api/admin/trainings
func (h *TrainingHandlers) CreateTrainingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req trainingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		if !models.ValidTrainingMode(req.Mode) {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		training := &models.Training{
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Provider:    req.Provider,
			Mode:        req.Mode,
			StartDate:   req.StartDate,
			URL:         req.URL,
		}

		if err := h.trainingRepo.CreateTraining(c.Request.Context(), training); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionCreate, models.AuditEntityTraining, training.ID,
			fmt.Sprintf("training created: %s", training.Title)))

		respond.Success(c, http.StatusCreated, "TRAINING_CREATE_SUCCESS", gin.H{"training": training})
	}
}

// @Summary      List trainings
// @Tags         Trainings
// @Security     Bearer
// @Produce      json
// @Param        mode      query  string  false  "Delivery mode (ONLINE, IN_PERSON)"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        per_page  query  int     false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "items: []models.Training, pagination: map"
// @Router       /api/admin/trainings [get]
// ListTrainingsHandler lists trainings
// GET /api/admin/trainings?mode=&page=1&per_page=20
func (h *TrainingHandlers) ListTrainingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, offset := respond.PageParams(c)

		mode := c.Query("mode")
		if mode != "" && !models.ValidTrainingMode(mode) {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		trainings, total, err := h.trainingRepo.ListTrainings(c.Request.Context(), mode, perPage, offset)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, respond.Paginated(trainings, page, perPage, total))
	}
}

// @Summary      Update a training
// @Tags         Trainings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: models.Training"
// @Failure      404  {object}  map[string]interface{}  "Training not found"
// @Router       /api/admin/trainings/{id} [patch]
// UpdateTrainingHandler updates a training announcement
// PATCH /api/admin/trainings/:id
func (h *TrainingHandlers) UpdateTrainingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req trainingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		if !models.ValidTrainingMode(req.Mode) {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		training, err := h.trainingRepo.GetTrainingByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if training == nil {
			respond.Error(c, http.StatusNotFound, "TRAINING_NOT_FOUND")
			return
		}

		training.Title = strings.TrimSpace(req.Title)
		training.Description = req.Description
		training.Provider = req.Provider
		training.Mode = req.Mode
		training.StartDate = req.StartDate
		training.URL = req.URL

		if err := h.trainingRepo.UpdateTraining(c.Request.Context(), training); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionUpdate, models.AuditEntityTraining, training.ID,
			fmt.Sprintf("training updated: %s", training.Title)))

		respond.Success(c, http.StatusOK, "TRAINING_UPDATE_SUCCESS", gin.H{"training": training})
	}
}

// @Summary      Delete a training
// @Tags         Trainings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Training not found"
// @Router       /api/admin/trainings/{id} [delete]
// DeleteTrainingHandler removes a training announcement
// DELETE /api/admin/trainings/:id
func (h *TrainingHandlers) DeleteTrainingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		trainingID := c.Param("id")

		training, err := h.trainingRepo.GetTrainingByID(c.Request.Context(), trainingID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if training == nil {
			respond.Error(c, http.StatusNotFound, "TRAINING_NOT_FOUND")
			return
		}

		if err := h.trainingRepo.DeleteTraining(c.Request.Context(), trainingID); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionDelete, models.AuditEntityTraining, trainingID,
			fmt.Sprintf("training deleted: %s", training.Title)))

		respond.Success(c, http.StatusOK, "TRAINING_DELETE_SUCCESS", nil)
	}
}
