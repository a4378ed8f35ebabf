// Package accounts implements the authentication endpoints: registration,
// login, logout, the current-user lookup, and the password reset flow. Every
// outcome here lands in the audit trail, including failed and blocked logins.
package accounts

import (
	"database/sql"
	"fmt"
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
	"github.com/vijana-portal/vijana-portal/internal/middleware"
	"github.com/vijana-portal/vijana-portal/internal/telemetry"
)

// sessionDuration is how long an issued session stays valid
const sessionDuration = 1 * time.Hour

// AuthHandlers handles registration and session endpoints
type AuthHandlers struct {
	cfg      *config.Config
	userRepo *repositories.UserRepository
	recorder *audit.Recorder
}

// NewAuthHandlers creates a new AuthHandlers instance
func NewAuthHandlers(cfg *config.Config, db *sql.DB, recorder *audit.Recorder) *AuthHandlers {
	return &AuthHandlers{
		cfg:      cfg,
		userRepo: repositories.NewUserRepository(db),
		recorder: recorder,
	}
}

// registerRequest is the payload for youth self-registration
type registerRequest struct {
	FullName  string  `json:"fullName" binding:"required,min=3,max=255"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone"`
	Password  string  `json:"password" binding:"required,min=8"`
	Ward      *string `json:"ward"`
	BirthYear *int    `json:"birthYear"`
	Education *string `json:"education"`
}

// setSessionCookie issues the HTTP-only session cookie
func (h *AuthHandlers) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookieName,
		token,
		int(sessionDuration.Seconds()),
		"/",
		"",
		h.cfg.Security.CookieSecure,
		true,
	)
}

// clearSessionCookie expires the session cookie
func (h *AuthHandlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.cfg.Security.CookieSecure, true)
}

// @Summary      Register a youth account
// @Description  Creates a youth account and starts a session. Emails are unique; duplicates are rejected.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}  "data: models.User"
// @Failure      400  {object}  map[string]interface{}  "Validation failed"
// @Failure      409  {object}  map[string]interface{}  "Email already in use"
// @Router       /api/auth/register [post]
// RegisterHandler creates a new youth account
// POST /api/auth/register
func (h *AuthHandlers) RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		existing, err := h.userRepo.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if existing != nil {
			h.recorder.Record(respond.Event(c, models.AuditActionRegisterFailed, models.AuditEntityAuth, "",
				fmt.Sprintf("registration rejected, email already in use: %s", email)))
			respond.Error(c, http.StatusConflict, "AUTH_REGISTER_FAILED")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		user := &models.User{
			FullName:     strings.TrimSpace(req.FullName),
			Email:        email,
			Phone:        req.Phone,
			PasswordHash: hash,
			Role:         models.RoleYouth,
			Ward:         req.Ward,
			BirthYear:    req.BirthYear,
			Education:    req.Education,
			Active:       true,
		}

		if err := h.userRepo.CreateUser(c.Request.Context(), user); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		token, err := auth.GenerateJWT(user.ID, user.Email, user.Role, sessionDuration)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		h.setSessionCookie(c, token)

		h.recorder.Record(respond.Event(c, models.AuditActionRegisterSuccess, models.AuditEntityYouth, user.ID,
			fmt.Sprintf("youth account registered: %s", user.Email)))

		respond.Success(c, http.StatusCreated, "AUTH_REGISTER_SUCCESS", gin.H{"user": user, "token": token})
	}
}

// loginRequest is the payload for login
type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Log in
// @Description  Verifies credentials and starts a session. Deactivated accounts are blocked even with correct credentials.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: user, token"
// @Failure      401  {object}  map[string]interface{}  "Incorrect email or password"
// @Failure      403  {object}  map[string]interface{}  "Account deactivated"
// @Router       /api/auth/login [post]
// LoginHandler authenticates a user and issues a session
// POST /api/auth/login
func (h *AuthHandlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		user, err := h.userRepo.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		// Same response for unknown email and wrong password so the endpoint
		// cannot be used to probe which emails are registered.
		if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
			telemetry.LoginAttemptsTotal.WithLabelValues("failed").Inc()
			h.recorder.Record(respond.Event(c, models.AuditActionLoginFailed, models.AuditEntityAuth, "",
				fmt.Sprintf("failed login attempt for %s", email)))
			respond.Error(c, http.StatusUnauthorized, "AUTH_LOGIN_FAILED")
			return
		}

		if !user.Active {
			telemetry.LoginAttemptsTotal.WithLabelValues("blocked").Inc()
			h.recorder.Record(respond.Event(c, models.AuditActionLoginBlocked, models.AuditEntityAuth, user.ID,
				fmt.Sprintf("login blocked for deactivated account %s", email)))
			respond.Error(c, http.StatusForbidden, "AUTH_LOGIN_BLOCKED")
			return
		}

		token, err := auth.GenerateJWT(user.ID, user.Email, user.Role, sessionDuration)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		h.setSessionCookie(c, token)

		telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()

		event := respond.Event(c, models.AuditActionLogin, models.AuditEntityAuth, user.ID,
			fmt.Sprintf("user logged in: %s", email))
		event.ActorID = &user.ID
		event.Role = &user.Role
		h.recorder.Record(event)

		respond.Success(c, http.StatusOK, "AUTH_LOGIN_SUCCESS", gin.H{"user": user, "token": token})
	}
}

// @Summary      Log out
// @Tags         Auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/auth/logout [post]
// LogoutHandler ends the session
// POST /api/auth/logout
func (h *AuthHandlers) LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.clearSessionCookie(c)

		h.recorder.Record(respond.Event(c, models.AuditActionLogout, models.AuditEntityAuth, "",
			"user logged out"))

		respond.Success(c, http.StatusOK, "AUTH_LOGOUT_SUCCESS", nil)
	}
}

// @Summary      Current user
// @Tags         Auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: models.User"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Router       /api/auth/me [get]
// MeHandler returns the authenticated user's account
// GET /api/auth/me
func (h *AuthHandlers) MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(respond.ContextUserID)

		user, err := h.userRepo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if user == nil {
			respond.Error(c, http.StatusUnauthorized, "AUTH_UNAUTHORIZED")
			return
		}

		respond.OK(c, gin.H{"user": user})
	}
}
