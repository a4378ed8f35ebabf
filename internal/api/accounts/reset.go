// reset.go implements the password reset flow: a forgot-password request that
// emails a single-use link, and the reset endpoint that redeems it. The forgot
// endpoint answers identically whether or not the email exists.
package accounts

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/auth"
	"github.com/vijana-portal/vijana-portal/internal/config"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
	"github.com/vijana-portal/vijana-portal/internal/mail"
	"github.com/vijana-portal/vijana-portal/internal/safego"
	"github.com/vijana-portal/vijana-portal/internal/telemetry"
)

// ResetHandlers handles the password reset endpoints
type ResetHandlers struct {
	cfg       *config.Config
	userRepo  *repositories.UserRepository
	resetRepo *repositories.PasswordResetRepository
	mailer    *mail.Mailer
	recorder  *audit.Recorder
}

// NewResetHandlers creates a new ResetHandlers instance
func NewResetHandlers(cfg *config.Config, db *sql.DB, mailer *mail.Mailer, recorder *audit.Recorder) *ResetHandlers {
	return &ResetHandlers{
		cfg:       cfg,
		userRepo:  repositories.NewUserRepository(db),
		resetRepo: repositories.NewPasswordResetRepository(db),
		mailer:    mailer,
		recorder:  recorder,
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// @Summary      Request a password reset
// @Description  Sends a reset link if the email belongs to an account. The response does not reveal whether it does.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/auth/forgot-password [post]
// ForgotPasswordHandler starts the reset flow
// POST /api/auth/forgot-password
func (h *ResetHandlers) ForgotPasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req forgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		// Clean out stale tokens while we are here
		if _, err := h.resetRepo.DeleteExpiredPasswordResets(c.Request.Context()); err != nil {
			slog.Warn("failed to delete expired reset tokens", "error", err)
		}

		user, err := h.userRepo.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		// Unknown email gets the same response, just no email
		if user != nil && user.Active {
			token, tokenHash, err := auth.GenerateResetToken()
			if err != nil {
				respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
				return
			}

			ttl := time.Duration(h.cfg.Notifications.ResetTokenTTLMinutes) * time.Minute
			reset := &models.PasswordReset{
				UserID:    user.ID,
				TokenHash: tokenHash,
				ExpiresAt: time.Now().Add(ttl),
			}

			if err := h.resetRepo.CreatePasswordReset(c.Request.Context(), reset); err != nil {
				respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
				return
			}

			h.recorder.Record(respond.Event(c, models.AuditActionUpdate, models.AuditEntityAuth, user.ID,
				fmt.Sprintf("password reset requested for %s", email)))

			if h.mailer.Enabled() {
				resetURL := fmt.Sprintf("%s/reset-password?token=%s", h.cfg.Server.GetPublicURL(), token)
				name := user.FullName
				toEmail := user.Email
				minutes := h.cfg.Notifications.ResetTokenTTLMinutes
				safego.Go(func() {
					if err := h.mailer.SendPasswordReset(toEmail, name, resetURL, minutes); err != nil {
						slog.Error("failed to send password reset email", "error", err)
						return
					}
					telemetry.ResetEmailsSentTotal.Inc()
				})
			} else {
				slog.Warn("password reset requested but notifications are disabled", "user_id", user.ID)
			}
		}

		respond.Success(c, http.StatusOK, "AUTH_RESET_EMAIL_SENT", nil)
	}
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// @Summary      Reset a password
// @Description  Redeems a reset token and replaces the account password. Tokens are single-use and expire.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}  "Invalid or expired token"
// @Router       /api/auth/reset-password [post]
// ResetPasswordHandler completes the reset flow
// POST /api/auth/reset-password
func (h *ResetHandlers) ResetPasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		reset, err := h.resetRepo.GetPasswordResetByTokenHash(c.Request.Context(), auth.HashResetToken(req.Token))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if reset == nil || !reset.Usable(time.Now()) {
			respond.Error(c, http.StatusBadRequest, "AUTH_RESET_INVALID")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		// Mark the token used first; a token that cannot be marked must not
		// change the password, or a race could redeem it twice.
		if err := h.resetRepo.MarkPasswordResetUsed(c.Request.Context(), reset.ID); err != nil {
			if err == sql.ErrNoRows {
				respond.Error(c, http.StatusBadRequest, "AUTH_RESET_INVALID")
				return
			}
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		if err := h.userRepo.UpdateUserPassword(c.Request.Context(), reset.UserID, hash); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionUpdate, models.AuditEntityUser, reset.UserID,
			"password changed via reset link"))

		respond.Success(c, http.StatusOK, "AUTH_RESET_SUCCESS", nil)
	}
}
