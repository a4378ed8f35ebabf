package portal

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
)

// ProfileHandlers handles the youth profile page
type ProfileHandlers struct {
	userRepo *repositories.UserRepository
	recorder *audit.Recorder
}

// NewProfileHandlers creates a new ProfileHandlers instance
func NewProfileHandlers(db *sql.DB, recorder *audit.Recorder) *ProfileHandlers {
	return &ProfileHandlers{
		userRepo: repositories.NewUserRepository(db),
		recorder: recorder,
	}
}

type updateProfileRequest struct {
	FullName  string  `json:"fullName" binding:"required,max=200"`
	Phone     *string `json:"phone"`
	Ward      *string `json:"ward"`
	BirthYear *int    `json:"birthYear"`
	Education *string `json:"education"`
}

// @Summary      Update my profile
// @Description  Updates the caller's own profile fields. Email and role cannot change here.
// @Tags         Portal
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  map[string]interface{}  "data: models.User"
// @Failure      400  {object}  map[string]interface{}  "Validation failed"
// @Router       /api/me/profile [put]
// UpdateProfileHandler updates the caller's profile
// PUT /api/me/profile
func (h *ProfileHandlers) UpdateProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		if req.BirthYear != nil {
			year := *req.BirthYear
			if year < 1900 || year > time.Now().Year() {
				respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
				return
			}
		}

		user, err := h.userRepo.GetUserByID(c.Request.Context(), c.GetString(respond.ContextUserID))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if user == nil {
			respond.Error(c, http.StatusNotFound, "NOT_FOUND")
			return
		}

		user.FullName = strings.TrimSpace(req.FullName)
		user.Phone = req.Phone
		user.Ward = req.Ward
		user.BirthYear = req.BirthYear
		user.Education = req.Education

		if err := h.userRepo.UpdateUserProfile(c.Request.Context(), user); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionUpdate, models.AuditEntityProfile,
			user.ID, "Updated own profile"))

		respond.Success(c, http.StatusOK, "PROFILE_UPDATE_SUCCESS", gin.H{"user": user})
	}
}
