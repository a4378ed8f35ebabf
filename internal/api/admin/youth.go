// youth.go implements handlers for administering registered youth accounts:
// listing, activation toggles, and deletion.
package admin

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
)

// YouthHandlers handles youth account administration endpoints
type YouthHandlers struct {
	userRepo *repositories.UserRepository
	recorder *audit.Recorder
}

// NewYouthHandlers creates a new YouthHandlers instance
func NewYouthHandlers(db *sql.DB, recorder *audit.Recorder) *YouthHandlers {
	return &YouthHandlers{
		userRepo: repositories.NewUserRepository(db),
		recorder: recorder,
	}
}

// @Summary      List youth accounts
// @Tags         Youth
// @Security     Bearer
// @Produce      json
// @Param        q         query  string  false  "Search in name and email"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        per_page  query  int     false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "items: []models.User, pagination: map"
// @Router       /api/admin/youth [get]
// ListYouthHandler lists registered youth accounts
// GET /api/admin/youth?q=&page=1&per_page=20
func (h *YouthHandlers) ListYouthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, offset := respond.PageParams(c)

		users, total, err := h.userRepo.ListUsersByRole(c.Request.Context(), models.RoleYouth, c.Query("q"), perPage, offset)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, respond.Paginated(users, page, perPage, total))
	}
}

// @Summary      Get a youth account
// @Tags         Youth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: models.User"
// @Failure      404  {object}  map[string]interface{}  "Account not found"
// @Router       /api/admin/youth/{id} [get]
// GetYouthHandler returns one youth account
// GET /api/admin/youth/:id
func (h *YouthHandlers) GetYouthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.userRepo.GetUserByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if user == nil || user.Role != models.RoleYouth {
			respond.Error(c, http.StatusNotFound, "YOUTH_NOT_FOUND")
			return
		}

		respond.OK(c, gin.H{"user": user})
	}
}

type statusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// @Summary      Activate or deactivate a youth account
// @Description  A deactivated account keeps its data but cannot log in; login attempts are audited as blocked.
// @Tags         Youth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Account not found"
// @Router       /api/admin/youth/{id}/status [patch]
// SetYouthStatusHandler toggles an account's active flag
// PATCH /api/admin/youth/:id/status
func (h *YouthHandlers) SetYouthStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		userID := c.Param("id")

		user, err := h.userRepo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if user == nil || user.Role != models.RoleYouth {
			respond.Error(c, http.StatusNotFound, "YOUTH_NOT_FOUND")
			return
		}

		active := *req.Active
		if err := h.userRepo.SetUserActive(c.Request.Context(), userID, active); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		state := "deactivated"
		if active {
			state = "activated"
		}
		h.recorder.Record(respond.Event(c, models.AuditActionUpdate, models.AuditEntityYouth, userID,
			fmt.Sprintf("youth account %s: %s", state, user.Email)))

		respond.Success(c, http.StatusOK, "YOUTH_STATUS_UPDATED", nil)
	}
}

// @Summary      Delete a youth account
// @Description  Removes the account along with its bookmarks and questions.
// @Tags         Youth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Account not found"
// @Router       /api/admin/youth/{id} [delete]
// DeleteYouthHandler removes a youth account
// DELETE /api/admin/youth/:id
func (h *YouthHandlers) DeleteYouthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")

		user, err := h.userRepo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if user == nil || user.Role != models.RoleYouth {
			respond.Error(c, http.StatusNotFound, "YOUTH_NOT_FOUND")
			return
		}

		if err := h.userRepo.DeleteUser(c.Request.Context(), userID); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionDelete, models.AuditEntityYouth, userID,
			fmt.Sprintf("youth account deleted: %s", user.Email)))

		respond.Success(c, http.StatusOK, "YOUTH_DELETE_SUCCESS", nil)
	}
}
