package portal

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
)

// SavedHandlers handles the saved-opportunity bookmarks
type SavedHandlers struct {
	savedRepo *repositories.SavedOpportunityRepository
	oppRepo   *repositories.OpportunityRepository
	recorder  *audit.Recorder
}

// NewSavedHandlers creates a new SavedHandlers instance
func NewSavedHandlers(db *sql.DB, sqlxDB *sqlx.DB, recorder *audit.Recorder) *SavedHandlers {
	return &SavedHandlers{
		savedRepo: repositories.NewSavedOpportunityRepository(sqlxDB),
		oppRepo:   repositories.NewOpportunityRepository(db),
		recorder:  recorder,
	}
}

// @Summary      Save an opportunity
// @Description  Bookmarks a published opportunity for the signed-in youth
// @Tags         Portal
// @Produce      json
// @Security     CookieAuth
// @Success      201  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Opportunity not found or not published"
// @Failure      409  {object}  map[string]interface{}  "Already saved"
// @Router       /api/me/saved/{id} [post]
// SaveOpportunityHandler bookmarks a published listing
// POST /api/me/saved/:id
func (h *SavedHandlers) SaveOpportunityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(respond.ContextUserID)
		oppID := c.Param("id")

		opp, err := h.oppRepo.GetOpportunityByID(c.Request.Context(), oppID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if opp == nil || !opp.Published {
			respond.Error(c, http.StatusNotFound, "OPPORTUNITY_NOT_FOUND")
			return
		}

		saved := &models.SavedOpportunity{
			UserID:        userID,
			OpportunityID: oppID,
		}
		if err := h.savedRepo.SaveOpportunity(c.Request.Context(), saved); err != nil {
			if repositories.IsDuplicateSave(err) {
				respond.Error(c, http.StatusConflict, "OPPORTUNITY_SAVE_DUPLICATE")
				return
			}
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionSave, models.AuditEntitySavedOpportunity,
			saved.ID, "Saved opportunity "+opp.Title))

		respond.Success(c, http.StatusCreated, "OPPORTUNITY_SAVE_SUCCESS", gin.H{"saved": saved})
	}
}

// @Summary      Unsave an opportunity
// @Tags         Portal
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Bookmark not found"
// @Router       /api/me/saved/{id} [delete]
// UnsaveOpportunityHandler removes a bookmark
// DELETE /api/me/saved/:id
func (h *SavedHandlers) UnsaveOpportunityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(respond.ContextUserID)
		oppID := c.Param("id")

		err := h.savedRepo.UnsaveOpportunity(c.Request.Context(), userID, oppID)
		if err == sql.ErrNoRows {
			respond.Error(c, http.StatusNotFound, "NOT_FOUND")
			return
		}
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionUnsave, models.AuditEntitySavedOpportunity,
			oppID, "Removed saved opportunity"))

		respond.Success(c, http.StatusOK, "OPPORTUNITY_UNSAVE_SUCCESS", nil)
	}
}

// @Summary      List saved opportunities
// @Tags         Portal
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  map[string]interface{}  "data: []models.SavedOpportunityDetail"
// @Router       /api/me/saved [get]
// ListSavedHandler lists the caller's bookmarks newest first
// GET /api/me/saved
func (h *SavedHandlers) ListSavedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(respond.ContextUserID)

		saved, err := h.savedRepo.ListSavedOpportunities(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, gin.H{"saved": saved})
	}
}
