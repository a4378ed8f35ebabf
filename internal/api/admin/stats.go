// stats.go implements the dashboard statistics endpoint backing the admin
// console overview page.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
)

// StatsHandler handles stats-related API requests
type StatsHandler struct {
	db *sqlx.DB
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(database *sqlx.DB) *StatsHandler {
	return &StatsHandler{
		db: database,
	}
}

// DashboardStats represents the response for dashboard statistics
type DashboardStats struct {
	Opportunities OpportunityStats    `json:"opportunities"`
	Trainings     int64               `json:"trainings"`
	Youth         YouthStats          `json:"youth"`
	Questions     QuestionStats       `json:"questions"`
	SavedTotal    int64               `json:"savedTotal"`
	AuditEvents   int64               `json:"auditEvents"`
	ByCategory    []CategoryOppCount  `json:"byCategory"`
}

// OpportunityStats represents listing statistics
type OpportunityStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Open      int64 `json:"open"`
}

// YouthStats represents youth account statistics
type YouthStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// QuestionStats represents Q&A statistics
type QuestionStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Answered int64 `json:"answered"`
}

// CategoryOppCount is a count of opportunities for a single category
type CategoryOppCount struct {
	Category string `json:"category" db:"category"`
	Count    int64  `json:"count" db:"count"`
}

// @Summary      Dashboard statistics
// @Description  Aggregated counts for the admin console overview page.
// @Tags         Stats
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: DashboardStats"
// @Router       /api/admin/stats [get]
// DashboardStatsHandler returns aggregated portal counts
// GET /api/admin/stats
func (h *StatsHandler) DashboardStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var stats DashboardStats

		err := h.db.GetContext(ctx, &stats.Opportunities.Total, `SELECT COUNT(*) FROM opportunities`)
		if err == nil {
			err = h.db.GetContext(ctx, &stats.Opportunities.Published, `SELECT COUNT(*) FROM opportunities WHERE published`)
		}
		if err == nil {
			err = h.db.GetContext(ctx, &stats.Opportunities.Open,
				`SELECT COUNT(*) FROM opportunities WHERE published AND (deadline IS NULL OR deadline > NOW())`)
		}
		if err == nil {
			err = h.db.GetContext(ctx, &stats.Trainings, `SELECT COUNT(*) FROM trainings`)
		}
		if err == nil {
			err = h.db.GetContext(ctx, &stats.Youth.Total, `SELECT COUNT(*) FROM users WHERE role = 'youth'`)
		}
		if err == nil {
			err = h.db.GetContext(ctx, &stats.Youth.Active, `SELECT COUNT(*) FROM users WHERE role = 'youth' AND active`)
		}
		if err == nil {
			err = h.db.GetContext(ctx, &stats.Questions.Total, `SELECT COUNT(*) FROM questions`)
		}
		if err == nil {
			err = h.db.GetContext(ctx, &stats.Questions.Pending, `SELECT COUNT(*) FROM questions WHERE status = 'PENDING'`)
		}
		if err == nil {
			err = h.db.GetContext(ctx, &stats.Questions.Answered, `SELECT COUNT(*) FROM questions WHERE status = 'ANSWERED'`)
		}
		if err == nil {
			err = h.db.GetContext(ctx, &stats.SavedTotal, `SELECT COUNT(*) FROM saved_opportunities`)
		}
		if err == nil {
			err = h.db.GetContext(ctx, &stats.AuditEvents, `SELECT COUNT(*) FROM audit_events`)
		}
		if err == nil {
			err = h.db.SelectContext(ctx, &stats.ByCategory, `
				SELECT c.name AS category, COUNT(o.id) AS count
				FROM categories c
				LEFT JOIN opportunities o ON o.category_id = c.id
				GROUP BY c.name
				ORDER BY count DESC, c.name ASC`)
		}
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, gin.H{"stats": stats})
	}
}
