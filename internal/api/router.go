// Package api wires together all HTTP routes for the youth portal backend.
//
// Route grouping philosophy:
//   - Browsing routes (/api/opportunities, /api/trainings, /api/categories) are
//     intentionally unauthenticated. Published listings are public information
//     and the portal frontend renders them before a visitor signs in.
//   - Youth self-service routes (/api/me/...) require a youth session.
//   - Console routes (/api/admin/...) require an administrator session.
package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/vijana-portal/vijana-portal/internal/api/accounts"
	"github.com/vijana-portal/vijana-portal/internal/api/admin"
	"github.com/vijana-portal/vijana-portal/internal/api/portal"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/config"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/mail"
	"github.com/vijana-portal/vijana-portal/internal/middleware"
)

// BackgroundServices holds references to background resources that must be
// stopped during graceful shutdown. The caller (cmd/server) is responsible for
// calling Shutdown() when the process receives a termination signal.
type BackgroundServices struct {
	shipper      *audit.MultiShipper
	rateLimiters []*middleware.RateLimiter
}

// Shutdown stops all background goroutines. It should be called after the HTTP
// server has been shut down so that in-flight requests are drained first.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	for _, rl := range bg.rateLimiters {
		rl.Stop()
	}
	if bg.shipper != nil {
		if err := bg.shipper.Close(); err != nil {
			slog.Error("failed to close audit shippers", "error", err)
		}
	}
	slog.Info("all background services stopped")
}

// shipperConfigs converts the viper-backed audit settings into the shipper
// package's own config structs
func shipperConfigs(cfg *config.AuditConfig) []audit.ShipperConfig {
	configs := make([]audit.ShipperConfig, 0, len(cfg.Shippers))
	for _, sc := range cfg.Shippers {
		out := audit.ShipperConfig{
			Enabled: sc.Enabled,
			Type:    sc.Type,
		}
		if sc.File != nil {
			out.File = &audit.FileConfig{
				Path:       sc.File.Path,
				MaxSizeMB:  sc.File.MaxSizeMB,
				MaxBackups: sc.File.MaxBackups,
			}
		}
		if sc.Webhook != nil {
			out.Webhook = &audit.WebhookConfig{
				URL:     sc.Webhook.URL,
				Headers: sc.Webhook.Headers,
				Timeout: time.Duration(sc.Webhook.TimeoutSecs) * time.Second,
			}
		}
		configs = append(configs, out)
	}
	return configs
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, *BackgroundServices, error) {
	router := gin.New()

	// Wrap *sql.DB with sqlx for the repositories that use struct scanning
	sqlxDB := sqlx.NewDb(db, "postgres")

	// Initialize the audit pipeline: database recorder plus any external shippers
	shipper, err := audit.NewMultiShipper(shipperConfigs(&cfg.Audit))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize audit shippers: %w", err)
	}
	recorder := audit.NewRecorder(sqlxDB, shipper, cfg.Audit.Enabled)

	mailer := mail.NewMailer(&cfg.Notifications)

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Readiness check endpoint
	router.GET("/ready", readinessHandler(db))

	// API version
	router.GET("/version", versionHandler())

	// Initialize handlers
	authHandlers := accounts.NewAuthHandlers(cfg, db, recorder)
	resetHandlers := accounts.NewResetHandlers(cfg, db, mailer, recorder)
	browseHandlers := portal.NewBrowseHandlers(db)
	savedHandlers := portal.NewSavedHandlers(db, sqlxDB, recorder)
	questionHandlers := portal.NewQuestionHandlers(db, recorder)
	profileHandlers := portal.NewProfileHandlers(db, recorder)

	categoryHandlers := admin.NewCategoryHandlers(db, recorder)
	opportunityHandlers := admin.NewOpportunityHandlers(db, recorder)
	trainingHandlers := admin.NewTrainingHandlers(db, recorder)
	adminQuestionHandlers := admin.NewQuestionHandlers(db, recorder)
	youthHandlers := admin.NewYouthHandlers(db, recorder)
	auditHandlers := admin.NewAuditHandlers(recorder)
	statsHandler := admin.NewStatsHandler(sqlxDB)
	exportHandlers := admin.NewExportHandlers(db, sqlxDB, recorder)

	// Initialize rate limiters
	authRateLimiter := middleware.NewRateLimiter(middleware.AuthRateLimitConfig())
	generalRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())

	api := router.Group("/api")
	api.Use(middleware.RateLimitMiddleware(generalRateLimiter))
	{
		// Authentication endpoints (no session required, stricter rate limit).
		// The stricter limiter is attached per-route so the general limiter on
		// the parent group still applies first.
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RateLimitMiddleware(authRateLimiter))
		{
			authGroup.POST("/register", authHandlers.RegisterHandler())
			authGroup.POST("/login", authHandlers.LoginHandler())
			authGroup.POST("/forgot-password", resetHandlers.ForgotPasswordHandler())
			authGroup.POST("/reset-password", resetHandlers.ResetPasswordHandler())
		}

		// Session endpoints (any signed-in user)
		sessionGroup := api.Group("/auth")
		sessionGroup.Use(middleware.AuthRequired())
		{
			sessionGroup.POST("/logout", authHandlers.LogoutHandler())
			sessionGroup.GET("/me", authHandlers.MeHandler())
		}

		// Public browsing endpoints
		api.GET("/opportunities", browseHandlers.ListOpportunitiesHandler())
		api.GET("/opportunities/:id", browseHandlers.GetOpportunityHandler())
		api.GET("/trainings", browseHandlers.ListTrainingsHandler())
		api.GET("/trainings/:id", browseHandlers.GetTrainingHandler())
		api.GET("/categories", browseHandlers.ListCategoriesHandler())

		// Youth self-service endpoints
		meGroup := api.Group("/me")
		meGroup.Use(middleware.AuthRequired())
		meGroup.Use(middleware.RequireRole(models.RoleYouth))
		{
			meGroup.GET("/saved", savedHandlers.ListSavedHandler())
			meGroup.POST("/saved/:id", savedHandlers.SaveOpportunityHandler())
			meGroup.DELETE("/saved/:id", savedHandlers.UnsaveOpportunityHandler())

			meGroup.GET("/questions", questionHandlers.ListMyQuestionsHandler())
			meGroup.POST("/questions", questionHandlers.CreateQuestionHandler())

			meGroup.PUT("/profile", profileHandlers.UpdateProfileHandler())
		}

		// Administration console endpoints
		adminGroup := api.Group("/admin")
		adminGroup.Use(middleware.AuthRequired())
		adminGroup.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminGroup.GET("/stats", statsHandler.DashboardStatsHandler())

			categoriesGroup := adminGroup.Group("/categories")
			{
				categoriesGroup.GET("", categoryHandlers.ListCategoriesHandler())
				categoriesGroup.POST("", categoryHandlers.CreateCategoryHandler())
				categoriesGroup.PATCH("/:id", categoryHandlers.UpdateCategoryHandler())
				categoriesGroup.DELETE("/:id", categoryHandlers.DeleteCategoryHandler())
			}

			oppsGroup := adminGroup.Group("/opportunities")
			{
				oppsGroup.GET("", opportunityHandlers.ListOpportunitiesHandler())
				oppsGroup.POST("", opportunityHandlers.CreateOpportunityHandler())
				oppsGroup.GET("/:id", opportunityHandlers.GetOpportunityHandler())
				oppsGroup.PATCH("/:id", opportunityHandlers.UpdateOpportunityHandler())
				oppsGroup.PATCH("/:id/publish", opportunityHandlers.PublishOpportunityHandler())
				oppsGroup.DELETE("/:id", opportunityHandlers.DeleteOpportunityHandler())
			}

			trainingsGroup := adminGroup.Group("/trainings")
			{
				trainingsGroup.GET("", trainingHandlers.ListTrainingsHandler())
				trainingsGroup.POST("", trainingHandlers.CreateTrainingHandler())
				trainingsGroup.PATCH("/:id", trainingHandlers.UpdateTrainingHandler())
				trainingsGroup.DELETE("/:id", trainingHandlers.DeleteTrainingHandler())
			}

			questionsGroup := adminGroup.Group("/questions")
			{
				questionsGroup.GET("", adminQuestionHandlers.ListQuestionsHandler())
				questionsGroup.PATCH("/:id/answer", adminQuestionHandlers.AnswerQuestionHandler())
				questionsGroup.DELETE("/:id", adminQuestionHandlers.DeleteQuestionHandler())
			}

			youthGroup := adminGroup.Group("/youth")
			{
				youthGroup.GET("", youthHandlers.ListYouthHandler())
				youthGroup.GET("/:id", youthHandlers.GetYouthHandler())
				youthGroup.PATCH("/:id/status", youthHandlers.SetYouthStatusHandler())
				youthGroup.DELETE("/:id", youthHandlers.DeleteYouthHandler())
			}

			auditGroup := adminGroup.Group("/audit")
			{
				auditGroup.GET("", auditHandlers.ListAuditEventsHandler())
				auditGroup.POST("/purge", auditHandlers.PurgeAuditEventsHandler())
			}

			exportsGroup := adminGroup.Group("/exports")
			{
				exportsGroup.GET("/opportunities", exportHandlers.ExportOpportunitiesHandler())
				exportsGroup.GET("/youth", exportHandlers.ExportYouthHandler())
				exportsGroup.GET("/audit", exportHandlers.ExportAuditHandler())
			}
		}
	}

	bg := &BackgroundServices{
		shipper:      shipper,
		rateLimiters: []*middleware.RateLimiter{authRateLimiter, generalRateLimiter},
	}

	return router, bg, nil
}

// @Summary      Health check
// @Description  Returns the health status of the service, including database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy, error: database connection failed"
// @Router       /health [get]
// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      Readiness check
// @Description  Returns whether the service is ready to accept traffic.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ready: true, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "ready: false, error: database not ready"
// @Router       /ready [get]
// readinessHandler returns the readiness status of the service
func readinessHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}

		if err := db.Ping(); err != nil {
			checks["database"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "database not ready",
			})
			return
		}
		checks["database"] = "healthy"

		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Description  Returns the current API version.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, api_version"
// @Router       /version [get]
// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v1",
		})
	}
}

// LoggerMiddleware provides structured request logging
func LoggerMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		requestID, _ := c.Get(middleware.RequestIDKey)

		// slog emits JSON or text depending on the handler configured in
		// telemetry.SetupLogger, so one call site covers both formats.
		slog.LogAttrs(
			c.Request.Context(),
			slog.LevelInfo,
			"http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.Int("status", c.Writer.Status()),
			slog.Int("size", c.Writer.Size()),
			slog.Duration("latency", latency),
			slog.String("ip", c.ClientIP()),
			slog.String("request_id", fmt.Sprintf("%v", requestID)),
			slog.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
